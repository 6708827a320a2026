package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"soundcheck/internal/config"
	"soundcheck/internal/deps"
	"soundcheck/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Show availability of the external binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := preflight.CheckTools(cfg)
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					state = status.Detail
				}
				rows = append(rows, []string{
					string(status.Tool),
					status.Command,
					state,
					status.Description,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Tool", "Command", "Status", "Purpose"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				shouldStyle(out),
			))

			if missing := deps.Missing(statuses); len(missing) > 0 {
				names := make([]string, 0, len(missing))
				for _, status := range missing {
					names = append(names, string(status.Tool))
				}
				fmt.Fprintf(out, "Missing: %s. Run `soundcheck deps install` to install them.\n",
					strings.Join(names, ", "))
			}
			return nil
		},
	}

	cmd.AddCommand(newDepsInstallCommand(ctx))
	return cmd
}

func newDepsInstallCommand(ctx *commandContext) *cobra.Command {
	var managerFlag string

	cmd := &cobra.Command{
		Use:   "install [tool...]",
		Short: "Install missing binaries through the host package manager",
		Long: `Install resolves sox, soxi, and magick to host packages and runs one
non-interactive package-manager install. Without arguments only the
missing tools are installed; naming tools installs exactly those.
System package managers generally require elevated privileges.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Installer.Enabled {
				return errors.New("dependency installation is disabled in the configuration ([installer] enabled = false)")
			}

			tools, err := resolveInstallTargets(cfg, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tools) == 0 {
				fmt.Fprintln(out, "All required binaries are already available")
				return nil
			}

			pinned := managerFlag
			if pinned == "" {
				pinned = cfg.Installer.Manager
			}
			manager, err := deps.Detect(pinned)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(tools))
			for _, tool := range tools {
				names = append(names, string(tool))
			}
			fmt.Fprintf(out, "Installing %s via %s\n", strings.Join(names, ", "), manager.Name)
			if err := manager.Install(cmd.Context(), tools); err != nil {
				return err
			}
			fmt.Fprintln(out, "Installation complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&managerFlag, "manager", "", "Package manager to use (default: auto-detect)")
	return cmd
}

// resolveInstallTargets turns CLI arguments into logical tools. Without
// arguments, the currently missing required tools are installed.
func resolveInstallTargets(cfg *config.Config, args []string) ([]deps.Tool, error) {
	if len(args) > 0 {
		known := map[string]deps.Tool{
			string(deps.ToolSox):    deps.ToolSox,
			string(deps.ToolSoxi):   deps.ToolSoxi,
			string(deps.ToolMagick): deps.ToolMagick,
		}
		tools := make([]deps.Tool, 0, len(args))
		for _, arg := range args {
			tool, ok := known[strings.ToLower(strings.TrimSpace(arg))]
			if !ok {
				return nil, fmt.Errorf("unknown tool %q (known: sox, soxi, magick)", arg)
			}
			tools = append(tools, tool)
		}
		return tools, nil
	}

	var tools []deps.Tool
	for _, status := range deps.Missing(preflight.CheckTools(cfg)) {
		tools = append(tools, status.Tool)
	}
	return tools, nil
}
