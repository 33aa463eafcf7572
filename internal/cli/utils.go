package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PAPAMICA/wallix-ssh/internal/models"
)

// Flags shared between the root command and the search/connect family.
var (
	flagInteractive  bool
	flagNoDeploy     bool
	flagFilter       string
	flagServices     string
	flagTags         string
	flagForceRefresh bool
)

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Connect with the bastion's Interactive account")
	cmd.Flags().BoolVarP(&flagNoDeploy, "no-deploy", "n", false, "Plain SSH session without file deployment")
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagFilter, "filter", "", "Filter machines by regular expression")
	cmd.Flags().StringVar(&flagServices, "services", "", "Filter machines by services (e.g. SSH,RDP)")
	cmd.Flags().StringVar(&flagTags, "tags", "", "Filter machines by tags (e.g. env:prod,team:infra)")
	cmd.Flags().BoolVarP(&flagForceRefresh, "force-refresh", "f", false, "Refresh the cache before searching")
}

// buildCriteria assembles FilterCriteria from the shared flags plus an
// optional free-text term. Tag parsing failures surface here, before any
// cache or network activity.
func buildCriteria(term string) (models.FilterCriteria, error) {
	criteria := models.FilterCriteria{
		Term:    strings.TrimSpace(term),
		Pattern: flagFilter,
	}
	if flagServices != "" {
		criteria.Services = models.ParseServices(flagServices)
	}
	if flagTags != "" {
		tags, err := models.ParseTagPairs(flagTags)
		if err != nil {
			return models.FilterCriteria{}, err
		}
		criteria.Tags = tags
	}
	return criteria, nil
}

// promptIndex asks the user to pick a 1-based entry, 'q' to give up.
func promptIndex(max int) (int, bool) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Choice (or 'q' to quit): ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, false
		}
		line = strings.TrimSpace(strings.ToLower(line))
		if line == "q" || line == "quit" {
			return 0, false
		}
		idx, err := strconv.Atoi(line)
		if err == nil && idx >= 1 && idx <= max {
			return idx - 1, true
		}
		fmt.Println("Invalid number. Please try again.")
	}
}

// promptYes asks a y/n question; an empty answer takes the default.
func promptYes(question string, def bool) bool {
	suffix := "y/N"
	if def {
		suffix = "Y/n"
	}
	fmt.Printf("%s (%s): ", question, suffix)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.TrimSpace(strings.ToLower(line)) {
	case "":
		return def
	case "y", "yes":
		return true
	default:
		return false
	}
}
