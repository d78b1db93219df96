package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/kmviz/internal/analysis"
	"github.com/san-kum/kmviz/internal/config"
	"github.com/san-kum/kmviz/internal/export"
	"github.com/san-kum/kmviz/internal/gui"
	"github.com/san-kum/kmviz/internal/render"
	"github.com/san-kum/kmviz/internal/storage"
	"github.com/san-kum/kmviz/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir       string
	configFile    string
	preset        string
	verbose       bool
	pointsFile    string
	centroidsFile string
	// export
	runName string
	// snapshot
	outFile      string
	snapW, snapH int
	// stats
	plotWidth int
	// show
	showAssignments bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kmviz [points centroids]",
		Short: "3D viewer for k-means clusterings",
		Args:  cobra.MaximumNArgs(2),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		RunE:          runWindow,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".kmviz", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&pointsFile, "points", "", "point file (x y z per line)")
	pf.StringVar(&centroidsFile, "centroids", "", "centroid file (x y z per line)")

	viewCmd := &cobra.Command{
		Use:   "view [points centroids]",
		Short: "open the visualisation window",
		Args:  cobra.MaximumNArgs(2),
		RunE:  runWindow,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui [points centroids]",
		Short: "render the scene in the terminal",
		Args:  cobra.MaximumNArgs(2),
		RunE:  runTerminal,
	}

	statsCmd := &cobra.Command{
		Use:   "stats [points centroids]",
		Short: "print per-cluster statistics",
		Args:  cobra.MaximumNArgs(2),
		RunE:  printStats,
	}
	statsCmd.Flags().IntVar(&plotWidth, "width", 60, "chart width")

	exportCmd := &cobra.Command{
		Use:   "export [points centroids]",
		Short: "store the labelled points as a run",
		Args:  cobra.MaximumNArgs(2),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&runName, "name", "run", "run name")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [points centroids]",
		Short: "render one frame to a png or svg file",
		Args:  cobra.MaximumNArgs(2),
		RunE:  snapshot,
	}
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "frame.png", "output file (.png or .svg)")
	snapshotCmd.Flags().IntVar(&snapW, "width", 0, "image width (default: window width)")
	snapshotCmd.Flags().IntVar(&snapH, "height", 0, "image height (default: window height)")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().BoolVar(&showAssignments, "assignments", false, "also print the labelled points")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(viewCmd, tuiCmd, statsCmd, exportCmd, snapshotCmd, runsCmd, showCmd, presetsCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "kmviz:", err)
		os.Exit(1)
	}
}

func runWindow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sc, cfg, err := loadScene(ctx, args)
	if err != nil {
		return err
	}
	return gui.Run(ctx, sc, gui.Options{
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Title:      gui.DefaultTitle(sc),
		Background: cfg.BackgroundColor(),
		Controller: newController(cfg),
		Transform:  newTransform(cfg),
	})
}

func runTerminal(cmd *cobra.Command, args []string) error {
	sc, cfg, err := loadScene(cmd.Context(), args)
	if err != nil {
		return err
	}
	return tui.Run(sc, tui.Options{
		Background: cfg.BackgroundColor(),
		Controller: newController(cfg),
		Transform:  newTransform(cfg),
	})
}

func printStats(cmd *cobra.Command, args []string) error {
	sc, _, err := loadScene(cmd.Context(), args)
	if err != nil {
		return err
	}
	sum, err := analysis.Summarize(sc)
	if err != nil {
		return err
	}
	if err := analysis.Report(os.Stdout, sum); err != nil {
		return err
	}
	if chart := analysis.PlotCounts(sum, plotWidth, 10); chart != "" {
		fmt.Println()
		fmt.Println(chart)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	sc, _, err := loadScene(cmd.Context(), args)
	if err != nil {
		return err
	}
	sum, err := analysis.Summarize(sc)
	if err != nil {
		return err
	}
	points, centroids, _ := inputFiles(args)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(runName, sc, storage.RunMetadata{
		PointsFile:    points,
		CentroidsFile: centroids,
		Inertia:       sum.Inertia,
	})
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func snapshot(cmd *cobra.Command, args []string) error {
	sc, cfg, err := loadScene(cmd.Context(), args)
	if err != nil {
		return err
	}
	w, h := cfg.Window.Width, cfg.Window.Height
	if snapW > 0 {
		w = snapW
	}
	if snapH > 0 {
		h = snapH
	}

	ext := strings.ToLower(filepath.Ext(outFile))
	if ext != ".png" && ext != ".svg" {
		return fmt.Errorf("unsupported output format: %s", outFile)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	switch ext {
	case ".svg":
		_, err = f.WriteString(export.SceneToSVG(sc, newTransform(cfg), w, h, cfg.BackgroundColor()))
	case ".png":
		r := render.New(render.NewCanvas(w, h), newTransform(cfg))
		r.Background = cfg.BackgroundColor()
		st := r.Render(sc)
		fmt.Printf("drawn: %d  culled: %d  degenerate: %d\n", st.Drawn, st.Culled, st.Degenerate)
		err = export.WritePNG(f, r.Canvas())
	}
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s (%dx%d)\n", outFile, w, h)
	return f.Sync()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tPOINTS\tCENTROIDS\tINERTIA")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4f\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Points,
			run.Centroids,
			run.Inertia,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}
	if !showAssignments {
		return nil
	}

	assignments, err := st.LoadAssignments(meta.ID)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nX\tY\tZ\tCENTROID")
	for _, a := range assignments {
		fmt.Fprintf(w, "%.6f\t%.6f\t%.6f\t%d\n", a.Position.X(), a.Position.Y(), a.Position.Z(), a.Centroid)
	}
	return w.Flush()
}
