// Package cli wires the editor, the HTTP API and one-shot evaluation into
// the gridsheet command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"

	json "github.com/bytedance/sonic"
	"github.com/gdamore/tcell/v2"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"gridsheet/internal/app"
	"gridsheet/internal/calc"
	"gridsheet/internal/config"
	"gridsheet/internal/logging"
	"gridsheet/internal/server"
	"gridsheet/internal/storage"
)

type options struct {
	configPath string
	cfg        config.Config
}

// Execute runs the command line and returns the first error.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "gridsheet [FILE]",
		Short: "Terminal spreadsheet with range formulas",
		Long: `Edit a grid of cells in the terminal and compute range formulas.

Formulas:
  =SUM(A1:C3) =AVERAGE(...) =MAX(...) =MIN(...)
  =COUNT(...) =MEDIAN(...) =PRODUCT(...)

Files:
  .grid  native document (text, formats, sizes)
  .csv   text only
  .xlsx  Excel workbook, first sheet

Examples:
  gridsheet budget.grid
  gridsheet eval budget.csv "=SUM(B2:B20)"
  gridsheet serve --listen :8080`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			return runEditor(cmd.Context(), opts.cfg, file)
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default "+config.DefaultFile+" if present)")

	root.AddCommand(newServeCmd(opts), newEvalCmd(opts))
	return root
}

func runEditor(ctx context.Context, cfg config.Config, file string) error {
	// the terminal owns stderr while the editor runs
	log, closeLog, err := logging.New(cfg.Log, nil)
	if err != nil {
		return err
	}
	defer closeLog()

	a := app.NewApp(cfg.Editor, log)
	if file != "" {
		if err := a.Open(file); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			a.File = file
			a.StatusMsg = "new file " + file
		}
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer s.Fini()
	s.EnableMouse()
	s.Clear()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()
	log.Info("editor started", "file", file)
	if err := a.Run(ctx, s); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newServeCmd(opts *options) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the formula HTTP API",
		Long: `Serve range parsing, formula evaluation and text operations over HTTP.

Endpoints:
  GET  /healthcheck
  POST /api/v1/range     {"range": "A1:C3"}
  POST /api/v1/formula   {"formula": "=SUM(A1:A3)", "cells": {"A1": "1"}}
  POST /api/v1/text/:op  trim upper lower title reverse replace dedup`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen != "" {
				opts.cfg.Server.Listen = listen
			}
			log, closeLog, err := logging.New(opts.cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			if level, _ := logging.ParseLevel(opts.cfg.Log.Level); level > slog.LevelDebug {
				gin.SetMode(gin.ReleaseMode)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, opts.cfg.Server.Listen, log)
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "address to listen on (overrides config)")
	return cmd
}

type evalResult struct {
	Formula string   `json:"formula"`
	Result  *float64 `json:"result,omitempty"`
	Display string   `json:"display"`
}

type evalError struct {
	Formula string `json:"formula"`
	Error   string `json:"error"`
	Kind    string `json:"kind"`
}

func newEvalCmd(opts *options) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "eval FILE FORMULA",
		Short: "Evaluate a formula against a saved sheet",
		Example: `  gridsheet eval sales.csv "=AVERAGE(B2:B13)"
  gridsheet eval --json book.xlsx "=MEDIAN(A1:A100)"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, formula := args[0], args[1]
			sheet, err := storage.Load(file, opts.cfg.Editor.DefaultWidth, opts.cfg.Editor.DefaultHeight)
			if err != nil {
				return err
			}

			val, evalErr := calc.EvaluateFormula(formula, sheet.CellTextAt)
			out := cmd.OutOrStdout()
			if !jsonOutput {
				if evalErr != nil {
					return evalErr
				}
				_, err = fmt.Fprintln(out, calc.FormatResult(val))
				return err
			}

			var payload []byte
			if evalErr != nil {
				payload, err = json.Marshal(evalError{Formula: formula, Error: evalErr.Error(), Kind: calc.Kind(evalErr)})
			} else {
				res := evalResult{Formula: formula, Display: calc.FormatResult(val)}
				if !math.IsNaN(val) && !math.IsInf(val, 0) {
					res.Result = &val
				}
				payload, err = json.Marshal(res)
			}
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(out, string(payload)); err != nil {
				return err
			}
			return evalErr
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")
	return cmd
}
