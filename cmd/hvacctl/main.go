package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"hvac-dashboard/internal/auth"
	"hvac-dashboard/internal/common"
	"hvac-dashboard/internal/config"
	"hvac-dashboard/internal/report"
	"hvac-dashboard/internal/sensors"
)

func newRootCmd() *cobra.Command {
	var confFile string

	rootCmd := &cobra.Command{
		Use:           "hvacctl",
		Short:         "HVAC dashboard developer CLI",
		Long:          `A command-line interface for inspecting session tokens and previewing sensor list views.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&confFile, "config", "", "configuration file")

	loadConfig := func() *config.Config {
		cfg, err := config.Load(confFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not load configuration: %v\n", err)
			return config.Default()
		}
		return cfg
	}

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Session token tools",
	}
	tokenCmd.AddCommand(newTokenInspectCmd(), newTokenMintCmd(loadConfig))

	sensorsCmd := &cobra.Command{
		Use:   "sensors",
		Short: "Sensor list tools",
	}
	sensorsCmd.AddCommand(newSensorsListCmd(), newSensorsExportCmd())

	rootCmd.AddCommand(tokenCmd, sensorsCmd, newPagesCmd())
	return rootCmd
}

func newTokenInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <token>",
		Short: "Decode a session token without verifying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := auth.DecodeToken(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "🔍 Token payload:")
			fmt.Fprintf(out, "  Tenant ID:   %s\n", payload.TenantID)
			fmt.Fprintf(out, "  Tenant slug: %s\n", payload.TenantSlug)
			fmt.Fprintf(out, "  Tenant name: %s\n", payload.TenantName)
			if payload.Exp == 0 {
				fmt.Fprintln(out, "  Expires:     never (treated as invalid)")
			} else {
				fmt.Fprintf(out, "  Expires:     %s\n", payload.ExpiresAt().UTC().Format(time.RFC3339))
			}

			if auth.IsSessionValid(args[0], time.Now()) {
				fmt.Fprintln(out, "  Session:     ✅ valid")
			} else {
				fmt.Fprintln(out, "  Session:     ❌ expired")
			}
			return nil
		},
	}
}

func newTokenMintCmd(loadConfig func() *config.Config) *cobra.Command {
	var claims auth.Claims
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint a development session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if cfg.Auth.JWTSecret == "" {
				return fmt.Errorf("auth.jwt_secret (or JWT_SECRET) is required to mint tokens")
			}
			if ttl <= 0 {
				ttl = config.Duration(cfg.Auth.TokenTTL, time.Hour)
			}

			minter := auth.NewTokenMinter([]byte(cfg.Auth.JWTSecret), cfg.Auth.JWTIssuer, ttl)
			token, err := minter.Mint(claims)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&claims.TenantSlug, "slug", "", "tenant slug")
	cmd.Flags().StringVar(&claims.TenantID, "tenant-id", "", "tenant id")
	cmd.Flags().StringVar(&claims.TenantName, "name", "", "tenant display name")
	cmd.Flags().StringVar(&claims.UserID, "user", "dev", "user id")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime, defaults to auth.token_ttl")
	return cmd
}

func newSensorsListCmd() *cobra.Command {
	var file, status string
	var page, size int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Preview one page of the sensor list",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loadRecords(file)
			if err != nil {
				return err
			}

			view := sensors.BuildView(records, sensors.ListQuery{
				Status:   sensors.ParseStatus(status),
				Page:     page,
				PageSize: size,
			})

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}

			fmt.Fprintf(out, "📊 %d sensors: %d online, %d offline\n",
				view.Summary.Total, view.Summary.Online, view.Summary.Offline)
			fmt.Fprintf(out, "Page %d of %d (%d matching, ?%s)\n",
				view.Pagination.Page, view.Pagination.TotalPages, view.Pagination.Total, view.Canonical)
			for _, r := range view.Items {
				fmt.Fprintf(out, "  %-24s %-8s %6.1f%%  %s\n", r.Tag, r.Status, r.AvailabilityPercent, r.EquipmentName)
			}
			fmt.Fprintln(out, formatWindow(view.Window, view.Pagination.Page))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "sensor dump (JSON)")
	cmd.Flags().StringVar(&status, "status", string(sensors.FilterAll), "all, online or offline")
	cmd.Flags().IntVar(&page, "page", sensors.DefaultPage, "page number")
	cmd.Flags().IntVar(&size, "size", sensors.DefaultPageSize, "page size: 25, 50 or 100")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the view as JSON")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newSensorsExportCmd() *cobra.Command {
	var file, out, status string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a sensor dump as Parquet",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loadRecords(file)
			if err != nil {
				return err
			}
			records = sensors.Filter(records, sensors.ParseStatus(status))

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := report.WriteParquet(f, records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "📦 wrote %d sensors to %s\n", len(records), out)
			return f.Close()
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "sensor dump (JSON)")
	cmd.Flags().StringVar(&out, "out", "sensors.parquet", "output file")
	cmd.Flags().StringVar(&status, "status", string(sensors.FilterAll), "all, online or offline")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newPagesCmd() *cobra.Command {
	var page, total int

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Print the pager window for a page",
		RunE: func(cmd *cobra.Command, args []string) error {
			if total < 1 {
				return common.ErrInvalidInputError("--total must be at least 1")
			}
			window := sensors.BuildPageWindow(page, total)
			fmt.Fprintln(cmd.OutOrStdout(), formatWindow(window, common.Clamp(page, 1, total)))
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "current page")
	cmd.Flags().IntVar(&total, "total", 1, "total pages")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
