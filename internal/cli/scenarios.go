package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/synheart/synheart-hrv/internal/scenario"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Inspect available scenarios",
	Long:  `Commands for listing and describing synthetic R-R scenarios.`,
}

var listScenariosCmd = &cobra.Command{
	Use:   "list",
	Short: "List available scenarios",
	Long:  `Lists all scenarios found in the scenarios directory.`,
	RunE:  runListScenarios,
}

var describeCmd = &cobra.Command{
	Use:   "describe <scenario>",
	Short: "Describe a scenario in detail",
	Long:  `Shows a scenario's beat profile and phases.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDescribe,
}

func init() {
	scenariosCmd.AddCommand(listScenariosCmd)
	scenariosCmd.AddCommand(describeCmd)
}

func runListScenarios(cmd *cobra.Command, args []string) error {
	registry := scenario.NewRegistry()
	if err := registry.LoadFromDir(getScenarioDir()); err != nil {
		return fmt.Errorf("failed to load scenarios: %w", err)
	}

	scenarios := registry.ListWithDescriptions()
	if len(scenarios) == 0 {
		fmt.Println("No scenarios found")
		return nil
	}

	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Available scenarios:")
	fmt.Println()
	for _, name := range names {
		fmt.Printf("  %-20s %s\n", name, scenarios[name])
	}
	fmt.Println()

	return nil
}

func runDescribe(cmd *cobra.Command, args []string) error {
	scenarioName := args[0]

	registry := scenario.NewRegistry()
	if err := registry.LoadFromDir(getScenarioDir()); err != nil {
		return fmt.Errorf("failed to load scenarios: %w", err)
	}

	scen, err := registry.Get(scenarioName)
	if err != nil {
		return fmt.Errorf("scenario not found: %w", err)
	}

	fmt.Printf("Scenario: %s\n", scen.Name)
	fmt.Printf("Description: %s\n", scen.Description)
	fmt.Printf("Duration: %s\n\n", scen.Duration)

	if scen.RR != nil {
		fmt.Println("Beat profile:")
		printRRConfig(scen.RR, "  ")
	}

	if len(scen.Phases) > 0 {
		fmt.Println("\nPhases:")
		for i, phase := range scen.Phases {
			fmt.Printf("  %d. %s (duration: %s)\n", i+1, phase.Name, phase.Duration)
			if phase.Overrides != nil {
				fmt.Println("     Overrides:")
				printRRConfig(phase.Overrides, "       ")
			}
		}
	}

	fmt.Println()
	return nil
}

func printRRConfig(rr *scenario.RRConfig, indent string) {
	if rr.MeanMS != 0 {
		fmt.Printf("%sMean interval: %.0f ms\n", indent, rr.MeanMS)
	}
	if rr.VariabilityMS != 0 {
		fmt.Printf("%sVariability: %.0f ms\n", indent, rr.VariabilityMS)
	}
	if rr.RespirationHz != 0 {
		fmt.Printf("%sRespiration: %.2f Hz\n", indent, rr.RespirationHz)
	}
	if rr.JitterMS != 0 {
		fmt.Printf("%sJitter: %.0f ms\n", indent, rr.JitterMS)
	}
	if rr.ArtifactRate != 0 {
		fmt.Printf("%sArtifact rate: %.1f%%\n", indent, rr.ArtifactRate*100)
	}
}
