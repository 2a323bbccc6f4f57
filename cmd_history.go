package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gbp-auditor/models"
	"gbp-auditor/services"
	"gbp-auditor/storage"
)

var (
	historyJSON bool
	historyYes  bool
	historyCSV  string
)

// errNotConfirmed is returned by history clear without --yes.
var errNotConfirmed = errors.New("refusing to clear history without --yes; this cannot be undone")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, export or clear past submissions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past submissions, newest first",
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every history entry (requires --yes)",
	RunE:  runHistoryClear,
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the history to a CSV file, newest first",
	RunE:  runHistoryExport,
}

func init() {
	historyListCmd.Flags().BoolVar(&historyJSON, "json", false, "Print entries as JSON")
	historyClearCmd.Flags().BoolVar(&historyYes, "yes", false, "Confirm the irreversible delete")
	historyExportCmd.Flags().StringVar(&historyCSV, "csv", "", "Output path (default CSV_EXPORT_PATH)")
	historyCmd.AddCommand(historyListCmd, historyClearCmd, historyExportCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, _, history, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := history.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if historyJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("encode history: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	fmt.Fprint(out, services.RenderHistory(entries))
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	if !historyYes {
		return errNotConfirmed
	}
	store, _, history, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := history.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
	return nil
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	path := historyCSV
	if path == "" {
		path = cfg.CSVExportPath
	}

	store, _, history, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := history.List()
	if err != nil {
		return err
	}

	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	if err := exportHistory(w, entries); err != nil {
		return err
	}

	logger.Info("[history] Exported %d entries to %s", len(entries), path)
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(entries), path)
	return nil
}

func exportHistory(w storage.HistoryExporter, entries []models.AuditEntry) error {
	if err := w.WriteHistory(entries); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
