package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var collectionCmd = &cobra.Command{
	Use:     "collection",
	Aliases: []string{"col"},
	Short:   "Group media into collections",
}

var collectionCreateCmd = &cobra.Command{
	Use:   "create [NAME]",
	Short: "Create a collection",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := requester(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd, "CreateCollection")
		if err != nil {
			return err
		}
		defer a.Close()

		name := strings.Join(args, " ")
		c, err := a.Service().CreateCollection(cmd.Context(), req, name)
		if err != nil {
			return a.Fail(err)
		}
		fmt.Printf("Collection %d: %s\n", c.ID, c.Name)
		return nil
	},
}

var collectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your collections",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := requester(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd, "ListCollections")
		if err != nil {
			return err
		}
		defer a.Close()

		cs, err := a.Service().ListCollections(cmd.Context(), req)
		if err != nil {
			return a.Fail(err)
		}
		if len(cs) == 0 {
			fmt.Println("No collections.")
			return nil
		}
		for _, c := range cs {
			fmt.Printf("%-6d  %s  %s\n", c.ID, c.CreatedAt.Format("2006-01-02"), c.Name)
		}
		return nil
	},
}

var collectionShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a collection and its media",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "collection")
		if err != nil {
			return err
		}
		req, err := requester(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd, "GetCollection")
		if err != nil {
			return err
		}
		defer a.Close()

		view, err := a.Service().GetCollection(cmd.Context(), req, id)
		if err != nil {
			return a.Fail(err)
		}
		fmt.Printf("ID:     %d\n", view.Collection.ID)
		fmt.Printf("Name:   %s\n", view.Collection.Name)
		fmt.Printf("Owner:  %d\n", view.Collection.OwnerUserID)
		fmt.Printf("Media:  %d item(s)\n", len(view.MediaIDs))
		for _, mediaID := range view.MediaIDs {
			fmt.Printf("  %d\n", mediaID)
		}
		return nil
	},
}

var collectionRenameCmd = &cobra.Command{
	Use:   "rename ID NAME",
	Short: "Rename a collection",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "collection")
		if err != nil {
			return err
		}
		req, err := requester(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd, "RenameCollection")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().RenameCollection(cmd.Context(), req, id, strings.Join(args[1:], " ")); err != nil {
			return a.Fail(err)
		}
		return nil
	},
}

var collectionDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a collection (its media are kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "collection")
		if err != nil {
			return err
		}
		req, err := requester(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd, "DeleteCollection")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().DeleteCollection(cmd.Context(), req, id); err != nil {
			return a.Fail(err)
		}
		fmt.Printf("Deleted collection %d\n", id)
		return nil
	},
}

var collectionAddCmd = &cobra.Command{
	Use:   "add COLLECTION MEDIA...",
	Short: "Add media to a collection",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		collectionID, err := parseID(args[0], "collection")
		if err != nil {
			return err
		}
		mediaIDs, err := parseIDs(args[1:], "media")
		if err != nil {
			return err
		}
		req, err := requester(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd, "AddToCollection")
		if err != nil {
			return err
		}
		defer a.Close()

		for _, mediaID := range mediaIDs {
			added, err := a.Service().AddToCollection(cmd.Context(), req, collectionID, mediaID)
			if err != nil {
				return a.Fail(fmt.Errorf("media %d: %w", mediaID, err))
			}
			if added {
				fmt.Printf("+  %d\n", mediaID)
			} else {
				fmt.Printf("=  %d (already present)\n", mediaID)
			}
		}
		return nil
	},
}

var collectionRemoveCmd = &cobra.Command{
	Use:   "remove COLLECTION MEDIA...",
	Short: "Remove media from a collection",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		collectionID, err := parseID(args[0], "collection")
		if err != nil {
			return err
		}
		mediaIDs, err := parseIDs(args[1:], "media")
		if err != nil {
			return err
		}
		req, err := requester(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd, "RemoveFromCollection")
		if err != nil {
			return err
		}
		defer a.Close()

		for _, mediaID := range mediaIDs {
			if err := a.Service().RemoveFromCollection(cmd.Context(), req, collectionID, mediaID); err != nil {
				return a.Fail(fmt.Errorf("media %d: %w", mediaID, err))
			}
		}
		return nil
	},
}

func parseIDs(args []string, what string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg, what)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func init() {
	collectionCmd.AddCommand(collectionCreateCmd)
	collectionCmd.AddCommand(collectionListCmd)
	collectionCmd.AddCommand(collectionShowCmd)
	collectionCmd.AddCommand(collectionRenameCmd)
	collectionCmd.AddCommand(collectionDeleteCmd)
	collectionCmd.AddCommand(collectionAddCmd)
	collectionCmd.AddCommand(collectionRemoveCmd)
	rootCmd.AddCommand(collectionCmd)
}
