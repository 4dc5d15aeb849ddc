package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/javajack/xlmap"
)

func main() {
	cmd := &cli.Command{
		Name:  "xlmap",
		Usage: "Export, import, and template the supplier field mapping workbook",
		Commands: []*cli.Command{
			{
				Name:   "export",
				Usage:  "Encode a YAML catalog into a mapping workbook",
				Action: runExport,
				Flags: []cli.Flag{
					catalogFlag(),
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output workbook path",
						Value:   "mapping.xlsx",
					},
					&cli.StringFlag{
						Name:  "filter",
						Usage: `Field filter expression, e.g. 'Mapped && FieldType == "String"'`,
					},
					&cli.StringFlag{
						Name:    "schema-token",
						Usage:   "Schema token to persist on the hidden metadata sheet (overrides the catalog)",
						Sources: cli.EnvVars("XLMAP_SCHEMA_TOKEN"),
					},
				},
			},
			{
				Name:   "import",
				Usage:  "Decode a mapping workbook and merge it into a YAML catalog",
				Action: runImport,
				Flags: []cli.Flag{
					catalogFlag(),
					&cli.StringFlag{
						Name:     "in",
						Aliases:  []string{"i"},
						Usage:    "Workbook file to import",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "Merged catalog output path (defaults to the catalog path)",
					},
				},
			},
			{
				Name:   "template",
				Usage:  "Write the blank source-catalog template workbook",
				Action: runTemplate,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output workbook path",
						Value:   "template.xlsx",
					},
					&cli.IntFlag{
						Name:  "rows",
						Usage: "Number of blank bordered rows",
						Value: 50,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("xlmap error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func catalogFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "catalog",
		Aliases: []string{"c"},
		Usage:   "Path to the YAML field catalog",
		Value:   "catalog.yaml",
		Sources: cli.EnvVars("XLMAP_CATALOG"),
	}
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	catalog, err := xlmap.LoadCatalog(cmd.String("catalog"))
	if err != nil {
		return err
	}

	opts := []xlmap.Option{xlmap.WithListener(logListener())}
	if src := cmd.String("filter"); src != "" {
		filter, err := xlmap.CompileFilter(src)
		if err != nil {
			return err
		}
		opts = append(opts, xlmap.WithFilter(filter))
	}

	token := catalog.SchemaToken
	if t := cmd.String("schema-token"); t != "" {
		token = t
	}

	svc := xlmap.NewService(catalog.Registry(), opts...)
	data, err := svc.Export(catalog.Mappings, token)
	if err != nil {
		return err
	}

	outPath := cmd.String("out")
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write workbook %q: %w", outPath, err)
	}
	slog.Info("workbook written", slog.String("path", outPath), slog.Int("fields", len(catalog.Fields)))
	return nil
}

func runImport(ctx context.Context, cmd *cli.Command) error {
	catalogPath := cmd.String("catalog")
	catalog, err := xlmap.LoadCatalog(catalogPath)
	if err != nil {
		// A missing catalog means a first import into an empty registry.
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		catalog = &xlmap.Catalog{}
	}

	inPath := cmd.String("in")
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read workbook %q: %w", inPath, err)
	}

	svc := xlmap.NewService(catalog.Registry(), xlmap.WithListener(logListener()))
	result, err := svc.Import(inPath, data)
	if err != nil {
		return err
	}

	merged := &xlmap.Catalog{
		SchemaToken: result.SchemaToken,
		Fields:      result.Fields,
		Mappings:    append(catalog.Mappings, result.Mappings...),
	}
	if merged.SchemaToken == "" {
		merged.SchemaToken = catalog.SchemaToken
	}

	outPath := cmd.String("out")
	if outPath == "" {
		outPath = catalogPath
	}
	if err := merged.Save(outPath); err != nil {
		return err
	}
	slog.Info("catalog written",
		slog.String("path", outPath),
		slog.Int("fields", len(merged.Fields)),
		slog.Int("mappings", len(result.Mappings)),
	)
	return nil
}

func runTemplate(ctx context.Context, cmd *cli.Command) error {
	enc := xlmap.NewEncoder(xlmap.WithBlankRowCount(int(cmd.Int("rows"))))
	data, err := enc.EncodeTemplate()
	if err != nil {
		return err
	}
	outPath := cmd.String("out")
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write template %q: %w", outPath, err)
	}
	slog.Info("template written", slog.String("path", outPath))
	return nil
}

// logListener forwards workbook status events to the process logger.
func logListener() xlmap.Listener {
	return xlmap.ListenerFuncs{
		Status: func(e xlmap.StatusEvent) {
			switch e.Severity {
			case xlmap.SeverityError:
				slog.Error(e.Message)
			case xlmap.SeverityWarning:
				slog.Warn(e.Message)
			default:
				slog.Info(e.Message)
			}
		},
		Refreshed: func(e xlmap.RefreshEvent) {
			slog.Info("registry refreshed",
				slog.Int("fields", len(e.Fields)),
				slog.Int("mappings", len(e.Mappings)),
				slog.String("schemaToken", e.SchemaToken),
			)
		},
	}
}

