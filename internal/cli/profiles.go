package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/lvillar/resumepdf/internal/store"
)

func (c *CLI) profilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage stored profiles",
		Long:  `Manage profiles kept in the configured store (file, redis or mongo).`,
	}

	cmd.AddCommand(c.profilesListCommand())
	cmd.AddCommand(c.profilesSaveCommand())
	cmd.AddCommand(c.profilesLoadCommand())
	cmd.AddCommand(c.profilesDeleteCommand())

	return cmd
}

func (c *CLI) profilesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored profile names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			names, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(names) == 0 {
				printInfo(w, "No stored profiles")
				return nil
			}
			for _, n := range names {
				printFile(w, n)
			}
			return nil
		},
	}
}

func (c *CLI) profilesSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save FILE [NAME]",
		Short: "Store a profile file (name defaults to a new UUID)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := readProfile(args[0], c.stdin)
			if err != nil {
				return err
			}
			name := store.NewName()
			if len(args) == 2 {
				name = args[1]
			}
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Save(cmd.Context(), name, prof); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Saved profile %s", name)
			return nil
		},
	}
}

func (c *CLI) profilesLoadCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "load NAME",
		Short: "Print a stored profile as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			prof, err := st.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(prof, "", "  ")
			if err != nil {
				return err
			}
			data = append(data, '\n')
			if output != "" {
				if err := os.WriteFile(output, data, filePermissions); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Wrote %s", output)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func (c *CLI) profilesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a stored profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Deleted profile %s", args[0])
			return nil
		},
	}
}
