package main

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"aperturama/internal/app"
	"aperturama/internal/aperture"
	"aperturama/internal/database/sqlc"

	"github.com/spf13/cobra"
)

var hexHash = regexp.MustCompile(`^[0-9a-f]{64}$`)

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Upload, inspect and remove media",
}

var mediaIngestCmd = &cobra.Command{
	Use:   "ingest FILE...",
	Short: "Upload files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ownerID, err := owner(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd, "Ingest")
		if err != nil {
			return err
		}
		defer a.Close()

		var failed int
		for _, path := range args {
			id, err := a.IngestFile(cmd.Context(), ownerID, path)
			if err != nil {
				failed++
				var incomplete *aperture.IncompleteMediaError
				if errors.As(err, &incomplete) {
					fmt.Printf("!  %s: stored incompletely as media %d: %v\n", path, incomplete.MediaID, err)
				} else {
					fmt.Printf("!  %s: %v\n", path, err)
				}
				continue
			}
			fmt.Printf("%d  %s\n", id, path)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d file(s) failed", failed, len(args))
		}
		return nil
	},
}

var mediaImportCmd = &cobra.Command{
	Use:   "import [DIR]",
	Short: "Upload every image in a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recursive, _ := cmd.Flags().GetBool("recursive")
		skip, _ := cmd.Flags().GetBool("skip-duplicates")
		workers, _ := cmd.Flags().GetInt("workers")

		ownerID, err := owner(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd, "Import")
		if err != nil {
			return err
		}
		defer a.Close()

		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		res, err := a.ImportDirectory(cmd.Context(), ownerID, dir, app.ImportOptions{
			Recursive:      recursive,
			SkipDuplicates: skip,
			Workers:        workers,
		})
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}

		for _, f := range res.Imported {
			fmt.Printf("%d  %s\n", f.MediaID, f.Path)
		}
		for _, p := range res.Skipped {
			fmt.Printf("=  %s\n", p)
		}
		for _, f := range res.Failed {
			fmt.Printf("!  %s: %v\n", f.Path, f.Err)
		}
		fmt.Printf("Imported %d, skipped %d, failed %d\n", len(res.Imported), len(res.Skipped), len(res.Failed))
		if len(res.Failed) > 0 {
			return fmt.Errorf("%d file(s) failed", len(res.Failed))
		}
		return nil
	},
}

var mediaCheckHashCmd = &cobra.Command{
	Use:   "checkhash FILE|HASH",
	Short: "Check whether content was already uploaded",
	Long:  "Reports whether the --as user owns media with the given content. The argument is a file to hash or a hex SHA-256.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ownerID, err := owner(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd, "CheckHash")
		if err != nil {
			return err
		}
		defer a.Close()

		var (
			hash   string
			exists bool
		)
		if arg := strings.ToLower(args[0]); hexHash.MatchString(arg) {
			hash = arg
			exists, err = a.Service().HasHash(cmd.Context(), ownerID, hash)
		} else {
			hash, exists, err = a.CheckHash(cmd.Context(), ownerID, args[0])
		}
		if err != nil {
			return a.Fail(err)
		}

		if exists {
			fmt.Printf("%s  present\n", hash)
		} else {
			fmt.Printf("%s  absent\n", hash)
		}
		return nil
	},
}

var mediaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your media",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := requester(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd, "ListMedia")
		if err != nil {
			return err
		}
		defer a.Close()

		media, err := a.Service().ListMedia(cmd.Context(), req)
		if err != nil {
			return a.Fail(err)
		}
		if len(media) == 0 {
			fmt.Println("No media.")
			return nil
		}
		for _, m := range media {
			printMediaLine(m)
		}
		return nil
	},
}

var mediaShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show media metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "media")
		if err != nil {
			return err
		}
		req, err := requester(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd, "GetMedia")
		if err != nil {
			return err
		}
		defer a.Close()

		m, err := a.Service().GetMedia(cmd.Context(), req, id)
		if err != nil {
			return a.Fail(err)
		}
		fmt.Printf("ID:        %d\n", m.ID)
		fmt.Printf("Owner:     %d\n", m.OwnerUserID)
		fmt.Printf("Filename:  %s\n", m.Filename)
		fmt.Printf("Hash:      %s\n", m.Hash)
		fmt.Printf("Captured:  %s\n", capturedAt(m))
		fmt.Printf("Uploaded:  %s\n", m.UploadedAt.Format(time.RFC3339))
		return nil
	},
}

var mediaDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete media you own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "media")
		if err != nil {
			return err
		}
		req, err := requester(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd, "DeleteMedia")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().DeleteMedia(cmd.Context(), req, id); err != nil {
			return a.Fail(err)
		}
		fmt.Printf("Deleted media %d\n", id)
		return nil
	},
}

var mediaExportCmd = &cobra.Command{
	Use:   "export ID",
	Short: "Copy the original or thumbnail to a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		thumbnail, _ := cmd.Flags().GetBool("thumbnail")

		id, err := parseID(args[0], "media")
		if err != nil {
			return err
		}
		req, err := requester(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd, "Export")
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := a.Export(cmd.Context(), req, id, output, thumbnail)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var mediaAuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Find media whose files are missing from the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		repair, _ := cmd.Flags().GetBool("repair")
		purge, _ := cmd.Flags().GetDuration("purge-staging")
		minAge, _ := cmd.Flags().GetDuration("min-age")

		a, err := newApp(cmd, "Audit")
		if err != nil {
			return err
		}
		defer a.Close()

		findings, err := a.Service().Audit(cmd.Context(), minAge)
		if err != nil {
			return a.Fail(err)
		}
		for _, f := range findings {
			var missing []string
			if f.MissingOriginal {
				missing = append(missing, "original")
			}
			if f.MissingThumbnail {
				missing = append(missing, "thumbnail")
			}
			fmt.Printf("%d  %s  missing %s\n", f.Media.ID, f.Media.Filename, strings.Join(missing, ", "))
		}
		fmt.Printf("%d incomplete media\n", len(findings))

		if repair && len(findings) > 0 {
			n, err := a.Service().Repair(cmd.Context(), findings)
			if err != nil {
				return a.Fail(err)
			}
			fmt.Printf("Removed %d incomplete media\n", n)
		}
		if purge > 0 {
			n, err := a.Service().PurgeStaging(purge)
			if err != nil {
				return a.Fail(err)
			}
			fmt.Printf("Purged %d staged upload(s)\n", n)
		}
		return nil
	},
}

func capturedAt(m *sqlc.Media) string {
	if !m.CapturedAt.Valid {
		return "-"
	}
	return m.CapturedAt.Time.Format(time.RFC3339)
}

func printMediaLine(m *sqlc.Media) {
	fmt.Printf("%-6d  %s  %s  %s\n", m.ID, m.Hash[:12], capturedAt(m), m.Filename)
}

func init() {
	mediaCmd.AddCommand(mediaIngestCmd)
	mediaCmd.AddCommand(mediaImportCmd)
	mediaImportCmd.Flags().BoolP("recursive", "r", false, "Recurse into subdirectories")
	mediaImportCmd.Flags().Bool("skip-duplicates", false, "Skip files whose content you already uploaded")
	mediaImportCmd.Flags().Int("workers", app.DefaultImportWorkers, "Concurrent uploads")
	mediaCmd.AddCommand(mediaCheckHashCmd)
	mediaCmd.AddCommand(mediaListCmd)
	mediaCmd.AddCommand(mediaShowCmd)
	mediaCmd.AddCommand(mediaDeleteCmd)
	mediaCmd.AddCommand(mediaExportCmd)
	mediaExportCmd.Flags().StringP("output", "o", ".", "Directory to write to")
	mediaExportCmd.Flags().Bool("thumbnail", false, "Export the thumbnail instead of the original")
	mediaCmd.AddCommand(mediaAuditCmd)
	mediaAuditCmd.Flags().Bool("repair", false, "Delete the incomplete media that were found")
	mediaAuditCmd.Flags().Duration("purge-staging", 0, "Also remove staged uploads older than this")
	mediaAuditCmd.Flags().Duration("min-age", aperture.DefaultAuditMinAge, "Only check media uploaded at least this long ago")
	rootCmd.AddCommand(mediaCmd)
}
