package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/hr-console/internal/api"
	"github.com/nhle/hr-console/internal/app"
	"github.com/nhle/hr-console/internal/credential"
	"github.com/nhle/hr-console/internal/model"
	"github.com/nhle/hr-console/internal/store"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to config file")
	role := flag.String("role", envOr("HRCONSOLE_ROLE", "employee"), "viewer role: admin or employee")
	user := flag.String("user", os.Getenv("HRCONSOLE_USER"), "employee id of the viewer")
	flag.Parse()

	// "hrconsole set-token <token>" stores the bearer token and exits.
	if flag.Arg(0) == "set-token" {
		if flag.Arg(1) == "" {
			fmt.Fprintln(os.Stderr, "usage: hrconsole set-token <token>")
			os.Exit(2)
		}
		if err := credential.SetToken(flag.Arg(1)); err != nil {
			fmt.Fprintf(os.Stderr, "storing token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("token stored")
		return
	}

	if err := run(*configPath, *role, *user); err != nil {
		fmt.Fprintf(os.Stderr, "hrconsole: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, role, user string) error {
	viewerRole := model.Role(role)
	if viewerRole != model.RoleAdmin && viewerRole != model.RoleEmployee {
		return fmt.Errorf("invalid role %q: use admin or employee", role)
	}
	if user == "" {
		return fmt.Errorf("no employee id: pass -user or set HRCONSOLE_USER")
	}

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}

	token, err := credential.Token()
	if err != nil {
		return fmt.Errorf(
			"no API token available (run 'hrconsole set-token' or set %s): %w",
			credential.EnvToken, err,
		)
	}

	sess := model.Session{
		EmployeeID: user,
		Role:       viewerRole,
		Token:      token,
	}
	client := api.NewClient(cfg.Server.BaseURL, sess)

	cachePath := filepath.Join(filepath.Dir(configPath), "cache.db")
	st, err := store.NewSQLiteStore(cachePath)
	if err != nil {
		return fmt.Errorf("opening local cache: %w", err)
	}
	defer st.Close()

	root := app.New(app.Config{
		Client:       client,
		Store:        st,
		BaseURL:      cfg.Server.BaseURL,
		PushEnabled:  cfg.Server.PushEnabled,
		PollInterval: time.Duration(cfg.Display.PollIntervalSec) * time.Second,
	})

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
