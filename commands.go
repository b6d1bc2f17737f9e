package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"press_release_drafter/generator"
	"press_release_drafter/mcptool"
	"press_release_drafter/pressrelease"
	"press_release_drafter/server"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			logger, err := buildLogger(root.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			pipeline, variant, err := buildPipeline(cfg, logger)
			if err != nil {
				return err
			}
			srv, err := server.New(pipeline, variant, server.Options{
				Filename:    cfg.Download.Filename,
				DownloadTTL: cfg.Download.TTL,
			}, logger.Named("http"))
			if err != nil {
				return err
			}

			listen := cfg.ServerAddr
			if addr != "" {
				listen = addr
			}
			if listen == "" {
				listen = ":8080"
			}
			httpSrv := &http.Server{
				Addr:              listen,
				Handler:           srv.Routes(),
				ReadHeaderTimeout: 15 * time.Second,
			}
			go func() {
				<-cmd.Context().Done()
				_ = httpSrv.Close()
			}()

			logger.Info("starting web server",
				zap.String("addr", listen),
				zap.String("variant", string(variant)),
				zap.String("template", cfg.TemplatePath))
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "http listen address (overrides server_addr)")
	return cmd
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	var notes, notesFile, out string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Draft one press release and write the .docx",
		Long: `Draft one press release and write the filled template to --out.

Notes come from --notes, --notes-file, or standard input.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := readNotes(cmd.InOrStdin(), notes, notesFile)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			logger, err := buildLogger(root.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			pipeline, _, err := buildPipeline(cfg, logger)
			if err != nil {
				return err
			}
			res, err := pipeline.Run(cmd.Context(), text)
			if errors.Is(err, generator.ErrGeneration) {
				return errors.New(generator.FailureMessage)
			}
			if err != nil {
				return err
			}

			if out == "" {
				out = cfg.Download.Filename
			}
			if err := writeFile(out, res.Document); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if res.Draft.Title != "" {
				fmt.Fprintln(w, titleStyle.Render(res.Draft.Title))
			}
			fmt.Fprintln(w, res.Draft.Body)
			fmt.Fprintln(w)
			if len(res.Report.Missing) > 0 {
				fmt.Fprintln(w, warnStyle.Render("not placed in template: "+strings.Join(res.Report.Missing, ", ")))
			}
			fmt.Fprintln(w, okStyle.Render("wrote "+out))
			return nil
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "announcement notes")
	cmd.Flags().StringVar(&notesFile, "notes-file", "", "read announcement notes from a file")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output .docx path (default: download filename)")
	cmd.MarkFlagsMutuallyExclusive("notes", "notes-file")
	return cmd
}

func readNotes(stdin io.Reader, notes, notesFile string) (string, error) {
	switch {
	case notes != "":
		return notes, nil
	case notesFile != "":
		data, err := os.ReadFile(notesFile)
		if err != nil {
			return "", fmt.Errorf("reading notes: %w", err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading notes from stdin: %w", err)
		}
		return string(data), nil
	}
}

func writeFile(path string, r io.Reader) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func newInitTemplateCmd() *cobra.Command {
	var out, variant string
	var mergeFields bool
	cmd := &cobra.Command{
		Use:   "init-template",
		Short: "Write a starter .docx template",
		Long: `Write a starter template whose placeholder paragraphs match the default
markers of the chosen variant ("Cologne" for prose; "Title", "First",
"Second" and "Third" for structured). With --merge-fields the placeholders
are MERGEFIELDs named after the draft fields instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := generator.ParseVariant(variant)
			if err != nil {
				return err
			}
			if _, err := os.Stat(out); err == nil {
				return fmt.Errorf("%s already exists", out)
			}
			if dir := filepath.Dir(out); dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			if err := pressrelease.StarterTemplate(v, mergeFields).Save(out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("wrote "+out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "template/pressrelease.docx", "output path")
	cmd.Flags().StringVar(&variant, "variant", string(generator.VariantStructured), "prose or structured")
	cmd.Flags().BoolVar(&mergeFields, "merge-fields", false, "use MERGEFIELD placeholders")
	return cmd
}

func newMCPCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run as MCP server (stdio transport)",
		Long: `Expose the generate_press_release tool over the Model Context Protocol
on stdio. Logs go to stderr.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			logger, err := buildLogger(root.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			pipeline, _, err := buildPipeline(cfg, logger)
			if err != nil {
				return err
			}
			return mcptool.NewServer(version, pipeline).Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
