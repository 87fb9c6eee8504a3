package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/arglab/internal/analysis"
	"github.com/san-kum/arglab/internal/scenario"
	"github.com/san-kum/arglab/internal/sim"
	"github.com/san-kum/arglab/internal/store"
	"github.com/san-kum/arglab/internal/viz"
)

var (
	dataDir    string
	configFile string
	seed       int64
	dt         float64
	duration   float64
	output     string
	noSave     bool
	showPlot   bool
	precision  int
	// Ensemble parameters
	ensembleSize int
	jitterRate   float64
	jitterLeak   float64
	jitterTheta  float64
	jitterReset  float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "arglab",
		Short: "accumulate-release simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".arglab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scenario file path (yaml)")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario and summarize its cycles",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "override timestep")
	runCmd.Flags().Float64Var(&duration, "time", 0, "override duration")
	runCmd.Flags().StringVar(&output, "output", "", "write trajectory CSV to path")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "skip saving the run")
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "print ascii trajectory plots")
	runCmd.Flags().IntVar(&precision, "precision", 3, "significant digits in tables")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [scenario]",
		Short: "run perturbed copies of a scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().IntVar(&ensembleSize, "size", 8, "ensemble size")
	ensembleCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	ensembleCmd.Flags().Float64Var(&jitterRate, "jitter-rate", 0, "relative rate jitter")
	ensembleCmd.Flags().Float64Var(&jitterLeak, "jitter-leak", 0, "relative leak jitter")
	ensembleCmd.Flags().Float64Var(&jitterTheta, "jitter-theta", 0, "relative theta jitter")
	ensembleCmd.Flags().Float64Var(&jitterReset, "jitter-reset", 0, "relative reset jitter")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list available scenarios",
		RunE:  listScenarios,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a stored trajectory to stdout as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario and replay it in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	rootCmd.AddCommand(runCmd, ensembleCmd, listCmd, runsCmd, plotCmd, exportCSVCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveScenario finds a scenario by id from the config file when given,
// falling back to the built-in presets.
func resolveScenario(id string) (scenario.Scenario, error) {
	if configFile != "" {
		scenarios, err := scenario.LoadFile(configFile)
		if err != nil {
			return scenario.Scenario{}, fmt.Errorf("failed to load scenarios: %w", err)
		}
		for _, sc := range scenarios {
			if sc.ID == id {
				return sc, nil
			}
		}
		return scenario.Scenario{}, fmt.Errorf("scenario %q not found in %s", id, configFile)
	}
	sc, ok := scenario.Preset(id)
	if !ok {
		return scenario.Scenario{}, fmt.Errorf("unknown scenario: %s (available: %s)", id, strings.Join(scenario.ListPresets(), ", "))
	}
	return sc, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := resolveScenario(args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dt") {
		sc.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		sc.Duration = duration
	}

	tr, events, err := sim.Simulate(context.Background(), sc, seed)
	if err != nil {
		return err
	}

	if output != "" {
		if err := writeTrajectoryFile(output, tr); err != nil {
			return err
		}
	}

	cycles := analysis.SummarizeCycles(tr, events, sc.InitialState)
	if len(cycles) == 0 {
		fmt.Println("no release events detected; nothing to summarize")
	} else {
		printCycleTable(cycles)
	}

	margin, err := analysis.ViabilityMargin(tr, sc.Thresholds)
	if err != nil {
		return err
	}
	p := precision
	if p < 1 {
		p = 1
	}
	fmt.Printf("\nend-state accumulator %.*g with margin %.*g to top threshold %.*g\n",
		p, margin.CurrentState, p, margin.Value, p, margin.TopThreshold)

	if showPlot {
		fmt.Println()
		fmt.Print(viz.PlotTrajectory(tr))
		fmt.Println(viz.SummaryPanel(tr, cycles, margin))
	}

	if !noSave {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(sc, seed, tr, events)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	return nil
}

func printCycleTable(cycles []analysis.CycleSummary) {
	p := precision
	if p < 1 {
		p = 1
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(analysis.CycleColumns, "\t")))
	for _, c := range cycles {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			sig(c.StartTime, p), sig(c.EndTime, p), sig(c.Duration, p),
			sig(c.RampAmplitude, p), sig(c.MeanSlope, p), sig(c.ReleaseGain, p),
			sig(c.Theta, p), sig(c.ResetLevel, p))
	}
	w.Flush()
}

func sig(v float64, digits int) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.*g", digits, v)
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	sc, err := resolveScenario(args[0])
	if err != nil {
		return err
	}

	jitter := sim.Jitter{Rate: jitterRate, Leak: jitterLeak, Theta: jitterTheta, Reset: jitterReset}
	trajectories, err := sim.RunEnsemble(context.Background(), sc, ensembleSize, jitter, seed)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MEMBER\tRELEASES\tFINAL STATE\tFINAL ORDER\tMARGIN")
	for _, tr := range trajectories {
		margin, err := analysis.ViabilityMargin(tr, sc.Thresholds)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%.4f\t%.4f\n",
			tr.Member, tr.Releases(), tr.FinalState(),
			tr.OrderParameter[tr.Len()-1], margin.Value)
	}
	return w.Flush()
}

func listScenarios(cmd *cobra.Command, args []string) error {
	var scenarios []scenario.Scenario
	if configFile != "" {
		var err error
		scenarios, err = scenario.LoadFile(configFile)
		if err != nil {
			return err
		}
	} else {
		for _, id := range scenario.ListPresets() {
			sc, _ := scenario.Preset(id)
			scenarios = append(scenarios, sc)
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tDRIVER\tTHRESHOLDS\tDURATION")
	for _, sc := range scenarios {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\n",
			sc.ID, sc.Label, sc.Driver.Type, len(sc.Thresholds), sc.Duration)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tEVENTS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\n",
			run.ID,
			run.ScenarioID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.EventCount,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if tr.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.ScenarioID)
	fmt.Printf("samples: %d\n\n", tr.Len())
	fmt.Print(viz.PlotTrajectory(tr))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return store.WriteTrajectory(os.Stdout, tr)
}

func runLive(cmd *cobra.Command, args []string) error {
	sc, err := resolveScenario(args[0])
	if err != nil {
		return err
	}
	tr, events, err := sim.Simulate(context.Background(), sc, seed)
	if err != nil {
		return err
	}
	return viz.RunPlayback(sc, tr, events)
}

func writeTrajectoryFile(path string, tr *sim.Trajectory) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return store.WriteTrajectory(file, tr)
}
