package main

import (
	"fmt"

	"aperturama/internal/aperture"

	"github.com/spf13/cobra"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Grant and revoke read access",
	Long: `Grant and revoke read access to media and collections.

Targets are written as KIND ID, where KIND is "media" or "collection".
Read access to a collection extends to every media item in it.`,
}

var shareUserCmd = &cobra.Command{
	Use:   "user KIND ID EMAIL",
	Short: "Share with a registered user",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTarget(cmd, args, "ShareWithUser", func(svc *aperture.Service, req aperture.Requester, target aperture.Target) error {
			if _, err := svc.ShareWithUser(cmd.Context(), req, target, args[2]); err != nil {
				return err
			}
			fmt.Printf("Shared %s with %s\n", target, args[2])
			return nil
		})
	},
}

var shareLinkCmd = &cobra.Command{
	Use:   "link KIND ID",
	Short: "Create a share link",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, _ := cmd.Flags().GetString("code")
		linkPassword, _ := cmd.Flags().GetString("link-password")

		return withTarget(cmd, args, "ShareLink", func(svc *aperture.Service, req aperture.Requester, target aperture.Target) error {
			g, err := svc.ShareLink(cmd.Context(), req, target, code, linkPassword)
			if err != nil {
				return err
			}
			protected := ""
			if g.HasPassword() {
				protected = " (password protected)"
			}
			fmt.Printf("%s%s\n", g.LinkCode.String, protected)
			return nil
		})
	},
}

var shareUnshareUserCmd = &cobra.Command{
	Use:   "unshare-user KIND ID EMAIL",
	Short: "Revoke a user's access",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTarget(cmd, args, "UnshareUser", func(svc *aperture.Service, req aperture.Requester, target aperture.Target) error {
			return svc.UnshareUser(cmd.Context(), req, target, args[2])
		})
	},
}

var shareUnshareLinkCmd = &cobra.Command{
	Use:   "unshare-link KIND ID CODE",
	Short: "Revoke a share link",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTarget(cmd, args, "UnshareLink", func(svc *aperture.Service, req aperture.Requester, target aperture.Target) error {
			return svc.UnshareLink(cmd.Context(), req, target, args[2])
		})
	},
}

var shareUnshareAllCmd = &cobra.Command{
	Use:   "unshare-all KIND ID",
	Short: "Revoke every grant on a target",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTarget(cmd, args, "UnshareAll", func(svc *aperture.Service, req aperture.Requester, target aperture.Target) error {
			n, err := svc.UnshareAll(cmd.Context(), req, target)
			if err != nil {
				return err
			}
			fmt.Printf("Revoked %d grant(s)\n", n)
			return nil
		})
	},
}

var shareListCmd = &cobra.Command{
	Use:   "list KIND ID",
	Short: "List the grants on a target",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTarget(cmd, args, "ListGrants", func(svc *aperture.Service, req aperture.Requester, target aperture.Target) error {
			grants, err := svc.ListGrants(cmd.Context(), req, target)
			if err != nil {
				return err
			}
			if len(grants) == 0 {
				fmt.Println("Not shared.")
				return nil
			}
			for _, g := range grants {
				switch {
				case g.IsUserGrant():
					fmt.Printf("%-6d  user  %d\n", g.ID, g.RecipientUserID.Int64)
				case g.HasPassword():
					fmt.Printf("%-6d  link  %s  (password)\n", g.ID, g.LinkCode.String)
				default:
					fmt.Printf("%-6d  link  %s\n", g.ID, g.LinkCode.String)
				}
			}
			return nil
		})
	},
}

// access command
var accessCmd = &cobra.Command{
	Use:   "access",
	Short: "Inspect access decisions",
}

var accessCheckCmd = &cobra.Command{
	Use:   "check KIND ID",
	Short: "Report whether the requester may read (or own) a target",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		own, _ := cmd.Flags().GetBool("own")
		capability := aperture.CapabilityRead
		if own {
			capability = aperture.CapabilityOwn
		}

		return withTarget(cmd, args, "ResolveAccess", func(svc *aperture.Service, req aperture.Requester, target aperture.Target) error {
			d, err := svc.ResolveAccess(cmd.Context(), req, target, capability)
			if err != nil {
				return err
			}
			if d.Allowed {
				fmt.Printf("allow  %s %s %s\n", req, capability, target)
				return nil
			}
			fmt.Printf("deny   %s %s %s: %s\n", req, capability, target, d.Reason)
			return d.Err()
		})
	},
}

// withTarget parses "KIND ID" from args, builds the requester and the app,
// and runs fn, recording its error as the operation outcome.
func withTarget(cmd *cobra.Command, args []string, operation string, fn func(*aperture.Service, aperture.Requester, aperture.Target) error) error {
	target, err := parseTarget(args[0], args[1])
	if err != nil {
		return err
	}
	req, err := requester(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cmd, operation)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Fail(fn(a.Service(), req, target))
}

func init() {
	shareCmd.AddCommand(shareUserCmd)
	shareCmd.AddCommand(shareLinkCmd)
	shareLinkCmd.Flags().String("code", "", "Use this code instead of a random one")
	shareLinkCmd.Flags().String("link-password", "", "Require this password to use the link")
	shareCmd.AddCommand(shareUnshareUserCmd)
	shareCmd.AddCommand(shareUnshareLinkCmd)
	shareCmd.AddCommand(shareUnshareAllCmd)
	shareCmd.AddCommand(shareListCmd)
	rootCmd.AddCommand(shareCmd)

	accessCmd.AddCommand(accessCheckCmd)
	accessCheckCmd.Flags().Bool("own", false, "Check the owner capability instead of read")
	rootCmd.AddCommand(accessCmd)
}
