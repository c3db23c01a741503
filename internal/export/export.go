// Package export renders a planner as a structured document in JSON, YAML
// or XLSX form, and describes the document with a JSON schema.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/christopherklint97/semplan/internal/planner"
	"github.com/christopherklint97/semplan/internal/semester"
)

type Format string

const (
	FormatICS  Format = "ics"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatICS, FormatJSON, FormatYAML, FormatXLSX:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q (want ics, json, yaml or xlsx)", s)
}

// Source is what a document is built from; *planner.Planner satisfies it.
type Source interface {
	Semester() semester.Semester
	Days() []planner.Day
}

type Document struct {
	Semester     string        `json:"semester" yaml:"semester"`
	AcademicYear string        `json:"academic_year" yaml:"academic_year"`
	Start        semester.Date `json:"start" yaml:"start"`
	End          semester.Date `json:"end" yaml:"end"`
	Weeks        []Week        `json:"weeks" yaml:"weeks"`
}

type Week struct {
	Label    string        `json:"label" yaml:"label"`
	Category string        `json:"category" yaml:"category" jsonschema:"enum=normal,enum=recess,enum=reading,enum=exam"`
	Monday   semester.Date `json:"monday" yaml:"monday"`
	Days     []Day         `json:"days,omitempty" yaml:"days,omitempty"`
}

type Day struct {
	Date    semester.Date  `json:"date" yaml:"date"`
	Weekday string         `json:"weekday" yaml:"weekday"`
	Slots   []planner.Slot `json:"slots" yaml:"slots"`
}

// Build lists every week of the semester with the days that hold slots.
func Build(src Source) Document {
	sem := src.Semester()
	doc := Document{
		Semester:     sem.Name,
		AcademicYear: sem.AcademicYear,
		Start:        sem.Start,
		End:          sem.End,
	}

	byMonday := make(map[semester.Date]int)
	for _, w := range sem.Weeks() {
		byMonday[w.Monday] = len(doc.Weeks)
		doc.Weeks = append(doc.Weeks, Week{
			Label:    w.FullLabel(),
			Category: w.Category().String(),
			Monday:   w.Monday,
		})
	}

	for _, d := range src.Days() {
		if d.Len() == 0 {
			continue
		}
		i, ok := byMonday[d.Date().Monday()]
		if !ok {
			continue
		}
		doc.Weeks[i].Days = append(doc.Weeks[i].Days, Day{
			Date:    d.Date(),
			Weekday: d.DayOfWeek().String(),
			Slots:   d.Slots(),
		})
	}
	return doc
}

// Placements flattens the document back into dated slots.
func (doc Document) Placements() []planner.Placement {
	var out []planner.Placement
	for _, w := range doc.Weeks {
		for _, d := range w.Days {
			for _, s := range d.Slots {
				out = append(out, planner.Placement{Date: d.Date, Slot: s})
			}
		}
	}
	return out
}

func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

func WriteYAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// ReadJSON and ReadYAML decode documents written by WriteJSON and WriteYAML.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return doc, fmt.Errorf("decoding json: %w", err)
	}
	return doc, nil
}

func ReadYAML(r io.Reader) (Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return doc, fmt.Errorf("decoding yaml: %w", err)
	}
	return doc, nil
}

// Schema is the JSON schema of Document.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case reflect.TypeOf(semester.Date{}):
				return &jsonschema.Schema{Type: "string", Format: "date"}
			case reflect.TypeOf(planner.TimeOfDay{}):
				return &jsonschema.Schema{Type: "string", Pattern: "^([01][0-9]|2[0-3]):[0-5][0-9]$"}
			}
			return nil
		},
	}
	s := r.Reflect(&Document{})
	s.Title = "semplan export"
	return s
}

func WriteSchema(w io.Writer) error {
	out, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

var weekdayColumns = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}
