package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"guardpost.app/registry/gateway"
)

func (c *cli) tenantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tenants",
		Aliases: []string{"tenant"},
		Short:   "List, inspect and change tenants",
	}

	cmd.AddCommand(
		c.tenantsListCmd(),
		c.tenantsGetCmd(),
		c.tenantsCreateCmd(),
		c.tenantsUpdateCmd(),
		c.tenantsDeleteCmd(),
	)
	return cmd
}

func (c *cli) tenantsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all tenants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenants, err := c.client.Tenants().List(cmd.Context())
			if err != nil {
				return err
			}
			return c.printTenants(tenants)
		},
	}
}

func (c *cli) tenantsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTenantID(args[0])
			if err != nil {
				return err
			}
			tenant, err := c.client.Tenants().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.printTenant(tenant)
		},
	}
}

func (c *cli) tenantsCreateCmd() *cobra.Command {
	var (
		description string
		inactive    bool
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a tenant; the slug is derived from the name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := gateway.CreateTenantRequest{Name: args[0]}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			if inactive {
				active := false
				req.IsActive = &active
			}

			tenant, err := c.client.Tenants().Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			return c.printTenant(tenant)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "free text description")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create the tenant deactivated")
	return cmd
}

func (c *cli) tenantsUpdateCmd() *cobra.Command {
	var (
		name        string
		description string
		active      bool
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a tenant; only the given flags are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTenantID(args[0])
			if err != nil {
				return err
			}

			var req gateway.UpdateTenantRequest
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = &name
			}
			if flags.Changed("description") {
				req.Description = &description
			}
			if flags.Changed("active") {
				req.IsActive = &active
			}

			tenant, err := c.client.Tenants().Update(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			return c.printTenant(tenant)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new display name; the slug is kept")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().BoolVar(&active, "active", true, "activate or deactivate the tenant")
	return cmd
}

func (c *cli) tenantsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTenantID(args[0])
			if err != nil {
				return err
			}
			if err := c.client.Tenants().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Tenant %d deleted\n", id)
			return nil
		},
	}
}

func (c *cli) printTenant(tenant *gateway.Tenant) error {
	if c.output() == "json" {
		return writeJSON(c.out, tenant)
	}
	return c.writeTable([]gateway.Tenant{*tenant})
}

func (c *cli) printTenants(tenants []gateway.Tenant) error {
	if c.output() == "json" {
		if tenants == nil {
			tenants = []gateway.Tenant{}
		}
		return writeJSON(c.out, tenants)
	}
	return c.writeTable(tenants)
}

func (c *cli) writeTable(tenants []gateway.Tenant) error {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSLUG\tACTIVE\tUPDATED")
	for _, t := range tenants {
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%s\n", t.ID, t.Name, t.Slug, t.IsActive, t.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func parseTenantID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid tenant id %q", raw)
	}
	return id, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
