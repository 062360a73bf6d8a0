package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"enrichment/internal/model"
	"enrichment/internal/service/workflow"
)

func newAssembleCmd(opts *rootOptions) *cobra.Command {
	var (
		primary   []string
		secondary []string
		output    string
	)
	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Build the sheet from SKU / SEQ-NAME files without a UI",
		Long: `Reads each --primary file as one Step 1 block and each --secondary file as
one Step 2 block (paired in order), then writes the assembled sheet to --output.
The run is recorded in history and in the export log.`,
		Example: `  enrichment assemble --primary sku1.tsv --secondary seq1.tsv --primary sku2.tsv -o out.xlsx`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := readRun(primary, secondary)
			if err != nil {
				return err
			}
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			a.Controller.Load(run)
			res, err := a.Controller.Complete(saveToFile(output))
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&primary, "primary", nil, "SKU data file (repeatable, required)")
	cmd.Flags().StringArrayVar(&secondary, "secondary", nil, "SEQ/NAME data file (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "enrichment.xlsx", "output xlsx path")
	_ = cmd.MarkFlagRequired("primary")
	return cmd
}

// readRun 读取数据文件；"-" 表示标准输入
func readRun(primary, secondary []string) (model.Run, error) {
	var run model.Run
	if len(secondary) > len(primary) {
		return run, fmt.Errorf("%d SEQ/NAME files for %d SKU files", len(secondary), len(primary))
	}
	for _, path := range primary {
		text, err := readBlock(path)
		if err != nil {
			return run, err
		}
		run.SKUData = append(run.SKUData, text)
	}
	for _, path := range secondary {
		text, err := readBlock(path)
		if err != nil {
			return run, err
		}
		run.SeqNameData = append(run.SeqNameData, text)
	}
	return run, nil
}

func readBlock(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%s: %w", path, model.ErrEmptyInput)
	}
	return text, nil
}

// saveToFile 写入固定路径（命令行模式下没有交互式选择）
func saveToFile(path string) workflow.SaveFunc {
	return func(f *excelize.File) (string, error) {
		if path == "" {
			return "", model.ErrSaveCancelled
		}
		if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
			path += ".xlsx"
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return path, fmt.Errorf("%w: %v", model.ErrFileWrite, err)
			}
		}
		if err := f.SaveAs(path); err != nil {
			return path, fmt.Errorf("%w: %v", model.ErrFileWrite, err)
		}
		return path, nil
	}
}

func printResult(w io.Writer, res *workflow.Result) {
	fmt.Fprintln(w, res.View.Message)
	fmt.Fprintf(w, "rows: %d\n", res.DataRows)
	if len(res.Groups) > 0 {
		fmt.Fprintf(w, "groups: %s\n", strings.Join(res.Groups, ", "))
	}
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}
