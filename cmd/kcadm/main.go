// kcadm is a small operator CLI over the keycloak-admin library. It reads
// its connection settings from the environment (KC_URL, KC_REALM,
// KC_CLIENT_ID, KC_CLIENT_SECRET, optional KC_AUTH_REALM) and prints results
// as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	keycloak "github.com/derhornspieler/keycloak-admin"
	"github.com/derhornspieler/keycloak-admin/client"
	"github.com/derhornspieler/keycloak-admin/internal/config"
	"github.com/derhornspieler/keycloak-admin/realm"
	"github.com/derhornspieler/keycloak-admin/user"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	kc      *keycloak.Client
	users   *user.API
	clients *client.API
	realms  *realm.API
	logger  *zap.Logger
}

func (a *app) init(verbose bool) error {
	logCfg := zap.NewProductionConfig()
	logCfg.EncoderConfig.TimeKey = "timestamp"
	logCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := logCfg.Build()
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	a.logger = logger
	a.kc = keycloak.New(keycloak.Config{
		URL:          cfg.URL,
		Realm:        cfg.Realm,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		AuthRealm:    cfg.AuthRealm,
		Timeout:      cfg.Timeout,
	}, logger)
	a.users = user.New(a.kc)
	a.clients = client.New(a.kc)
	a.realms = realm.New(a.kc)
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var verbose bool

	root := &cobra.Command{
		Use:           "kcadm",
		Short:         "Administer a Keycloak realm",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init(verbose)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newUsersCmd(a), newClientsCmd(a), newRealmCmd(a), newFlowsCmd(a))
	return root
}

func newUsersCmd(a *app) *cobra.Command {
	users := &cobra.Command{Use: "users", Short: "Manage users"}

	var first, max int
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			query := url.Values{}
			if cmd.Flags().Changed("first") {
				query.Set("first", strconv.Itoa(first))
			}
			if cmd.Flags().Changed("max") {
				query.Set("max", strconv.Itoa(max))
			}
			result, err := a.users.FindAll(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	list.Flags().IntVar(&first, "first", 0, "pagination offset")
	list.Flags().IntVar(&max, "max", 0, "maximum number of results")

	var newUser user.NewUser
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := a.users.Create(cmd.Context(), newUser)
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		},
	}
	create.Flags().StringVar(&newUser.Username, "username", "", "username (required)")
	create.Flags().StringVar(&newUser.FirstName, "first-name", "", "first name")
	create.Flags().StringVar(&newUser.LastName, "last-name", "", "last name")
	create.Flags().StringVar(&newUser.Email, "email", "", "email address")
	create.Flags().BoolVar(&newUser.Enabled, "enabled", true, "create the user enabled")
	_ = create.MarkFlagRequired("username")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.users.Delete(cmd.Context(), args[0])
		},
	}

	var password string
	var temporary bool
	reset := &cobra.Command{
		Use:   "reset-password <id>",
		Short: "Reset a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.users.ResetPassword(cmd.Context(), args[0], password, temporary)
		},
	}
	reset.Flags().StringVar(&password, "password", "", "new password (required)")
	reset.Flags().BoolVar(&temporary, "temporary", false, "force a password change on next login")
	_ = reset.MarkFlagRequired("password")

	roles := &cobra.Command{
		Use:   "roles <id>",
		Short: "List a user's role mappings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.users.GetRoles(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	users.AddCommand(list, create, del, reset, roles)
	return users
}

func newClientsCmd(a *app) *cobra.Command {
	clients := &cobra.Command{Use: "clients", Short: "Manage clients"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := a.clients.FindAll(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	roles := &cobra.Command{
		Use:   "roles <clientId>",
		Short: "List a client's roles by its clientId",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.clients.FindByClientID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("client %q not found", args[0])
			}
			result, err := a.clients.Roles(cmd.Context(), c.ID)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	clients.AddCommand(list, roles)
	return clients
}

func newRealmCmd(a *app) *cobra.Command {
	realmCmd := &cobra.Command{Use: "realm", Short: "Inspect the realm"}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the realm record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.realms.Find(cmd.Context())
			if err != nil {
				return err
			}
			if r == nil {
				return fmt.Errorf("realm %q not found", a.kc.Realm())
			}
			return printJSON(r)
		},
	}

	roles := &cobra.Command{
		Use:   "roles",
		Short: "List realm roles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := a.realms.Roles(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	realmCmd.AddCommand(show, roles)
	return realmCmd
}

func newFlowsCmd(a *app) *cobra.Command {
	flows := &cobra.Command{Use: "flows", Short: "Manage authentication flows"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List authentication flows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := a.realms.AuthenticationFlows(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	executions := &cobra.Command{
		Use:   "executions <alias>",
		Short: "List a flow's executions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.realms.Executions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	flows.AddCommand(list, executions)
	return flows
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
