package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/semplan/internal/calendar"
	"github.com/christopherklint97/semplan/internal/command"
	"github.com/christopherklint97/semplan/internal/export"
	"github.com/christopherklint97/semplan/internal/planner"
	"github.com/christopherklint97/semplan/internal/view"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the semester as ics, json, yaml or xlsx",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import FILE|URL",
	Short: "Import slots from an .ics calendar or a json/yaml export",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the json/yaml export",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return export.WriteSchema(cmd.OutOrStdout())
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "", "ics, json, yaml or xlsx (default from config)")
	exportCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	importCmd.Flags().StringP("format", "f", "", "ics, json or yaml (default: from the file extension)")
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	name, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	if name == "" && output != "" {
		name = strings.TrimPrefix(filepath.Ext(output), ".")
	}
	if name == "" {
		name = s.cfg.Export.DefaultFormat
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}

	p, err := s.load()
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case export.FormatICS:
		err = calendar.Export(w, p.Placements(), time.Local, s.clock.Now())
	case export.FormatJSON:
		err = export.WriteJSON(w, export.Build(p))
	case export.FormatYAML:
		err = export.WriteYAML(w, export.Build(p))
	case export.FormatXLSX:
		err = export.WriteXLSX(w, export.Build(p), s.cfg.Export.SheetName)
	}
	if err != nil {
		return err
	}

	s.logger.Info("exported", "format", format, "slots", p.Count(), "output", output)
	if output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d slots to %s\n", p.Count(), output)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	source := args[0]
	name, _ := cmd.Flags().GetString("format")
	if name == "" {
		name = strings.TrimPrefix(strings.ToLower(filepath.Ext(source)), ".")
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}

	p, err := s.load()
	if err != nil {
		return err
	}

	r, err := calendar.Open(cmd.Context(), source)
	if err != nil {
		return err
	}
	defer r.Close()

	var placements []planner.Placement
	switch format {
	case export.FormatICS:
		imported, err := calendar.Import(r, p.Semester(), time.Local)
		if err != nil {
			return err
		}
		for _, sk := range imported.Skipped {
			s.logger.Warn("event skipped", "uid", sk.UID, "reason", sk.Reason)
		}
		placements = imported.Placements
	case export.FormatJSON:
		doc, err := export.ReadJSON(r)
		if err != nil {
			return err
		}
		placements = doc.Placements()
	case export.FormatYAML:
		doc, err := export.ReadYAML(r)
		if err != nil {
			return err
		}
		placements = doc.Placements()
	default:
		return fmt.Errorf("cannot import %s files", format)
	}

	res := command.Place(p, placements)
	if res.Committed {
		if err := s.save(p); err != nil {
			return err
		}
	}
	fmt.Fprint(cmd.OutOrStdout(), view.Result("Imported", res))
	return nil
}
