package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fretlog/fretlog/internal/shared"
	"github.com/fretlog/fretlog/internal/store"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file from the embedded template when missing and
// reports which store backend the current configuration selects.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		r.writePlain("✓ Config loaded from %s\n", configPath)
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		if config, err = shared.LoadConfig(configPath); err != nil {
			return fmt.Errorf("failed to load created config: %w", err)
		}
		r.writePlain("✓ Config file created at %s\n", configPath)
	}

	if config.SupabaseConfigured() {
		r.writePlain("✓ Supabase configured, records persist to %s\n", config.Supabase.URL)
		r.writePlain("  Store mode: %s\n", store.ModeHosted)
	} else {
		r.writePlain("! Supabase not configured, records are kept in memory for one run\n")
		r.writePlain("  Store mode: %s\n", store.ModeMemory)
		r.writePlainln("Next steps:")
		r.writePlain("1. Create a project at https://supabase.com and copy the URL and anon key\n")
		r.writePlain("2. Fill in [supabase] url and anon_key in %s\n", configPath)
		r.writePlain("   (or set FRETLOG_SUPABASE_URL and FRETLOG_SUPABASE_ANON_KEY)\n")
	}

	if config.Artwork.Enabled {
		r.writePlain("✓ Artwork lookups enabled\n")
	} else {
		r.writePlain("  Artwork lookups disabled\n")
	}

	return nil
}
