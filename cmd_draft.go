package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Inspect or edit the stored, not yet submitted form",
}

var draftSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update draft fields; fields not given keep their stored value",
	RunE:  runDraftSet,
}

var draftShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored draft",
	RunE:  runDraftShow,
}

var draftClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored draft",
	RunE:  runDraftClear,
}

func init() {
	bindFormFlags(draftSetCmd)
	draftCmd.AddCommand(draftSetCmd, draftShowCmd, draftClearCmd)
}

func runDraftSet(cmd *cobra.Command, args []string) error {
	store, drafts, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	form, err := drafts.Load()
	if err != nil {
		return err
	}
	return drafts.Save(mergeForm(form, formFlags))
}

func runDraftShow(cmd *cobra.Command, args []string) error {
	store, drafts, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	form, err := drafts.Load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if form.IsEmpty() {
		fmt.Fprintln(out, "No draft stored.")
		return nil
	}
	fmt.Fprintf(out, "Business name : %s\n", form.BusinessName)
	fmt.Fprintf(out, "Location      : %s\n", form.Location)
	fmt.Fprintf(out, "Email         : %s\n", form.Email)
	fmt.Fprintf(out, "Phone number  : %s\n", form.PhoneNumber)
	return nil
}

func runDraftClear(cmd *cobra.Command, args []string) error {
	store, drafts, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	return drafts.Clear()
}
