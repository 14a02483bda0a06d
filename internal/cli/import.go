package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/synheart/synheart-hrv/internal/hrv"
	"github.com/synheart/synheart-hrv/internal/models"
	"github.com/synheart/synheart-hrv/internal/plugin"
	"github.com/synheart/synheart-hrv/internal/vendors"
)

var (
	importIn       string
	importVendor   string
	importWasm     string
	importDeviceID string
	importBaseline float64
	importJSON     bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import and analyze a vendor export",
	Long: `Imports a wearable vendor export file, converts it to upload form,
and analyzes each recording window.

Whoop exports are parsed natively. Other vendors go through a WASM
converter plugin passed with --wasm.

Examples:
  synheart-hrv import --in whoop_export.json
  synheart-hrv import --in garmin_export.json --vendor garmin --wasm bin/garmin_converter.wasm`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importIn, "in", "", "Vendor export file (required)")
	importCmd.Flags().StringVar(&importVendor, "vendor", "whoop", "Vendor format: whoop|garmin")
	importCmd.Flags().StringVar(&importWasm, "wasm", "", "WASM converter plugin (required for non-whoop vendors)")
	importCmd.Flags().StringVar(&importDeviceID, "device", "imported-device", "Device ID to stamp on converted uploads")
	importCmd.Flags().Float64Var(&importBaseline, "baseline", 0, "Personal RMSSD baseline in ms")
	importCmd.Flags().BoolVar(&importJSON, "json", false, "Output results as JSON")
	importCmd.MarkFlagRequired("in")
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(importIn)
	if err != nil {
		return fmt.Errorf("failed to read export file: %w", err)
	}

	var uploads []models.Upload

	switch importVendor {
	case "whoop":
		export, err := vendors.ParseWhoopExport(data)
		if err != nil {
			return err
		}
		uploads, err = export.ToUploads(Version)
		if err != nil {
			return err
		}

	default:
		if importWasm == "" {
			return fmt.Errorf("vendor %q needs a --wasm converter plugin", importVendor)
		}
		uploads, err = convertWithPlugin(cmd.Context(), data)
		if err != nil {
			return err
		}
	}

	engine := hrv.NewEngine()
	out := cmd.OutOrStdout()

	type importResult struct {
		Upload           models.Upload `json:"upload"`
		Metrics          *hrv.Metrics  `json:"metrics,omitempty"`
		EstimatedRMSSDMS *float64      `json:"estimated_rmssd_ms,omitempty"`
	}

	results := make([]importResult, 0, len(uploads))
	for _, upload := range uploads {
		res := importResult{Upload: upload}
		if len(upload.IntervalsMS) > 0 {
			m := engine.Calculate(upload.IntervalsMS, upload.WindowSeconds)
			res.Metrics = &m
		}
		if upload.SDNNOnlyMS != nil {
			estimate := hrv.EstimateRMSSDFromSDNN(*upload.SDNNOnlyMS)
			res.EstimatedRMSSDMS = &estimate
		}
		results = append(results, res)
	}

	if importJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	fmt.Fprintf(out, "Imported %d recording windows from %s\n", len(results), importIn)
	for i, res := range results {
		fmt.Fprintf(out, "\n--- Window %d (%s to %s) ---\n", i+1, res.Upload.Range.FromUTC, res.Upload.Range.ToUTC)
		if res.Metrics != nil {
			printMetrics(out, *res.Metrics)
			if importBaseline > 0 && res.Metrics.IsValid {
				deviation, label := hrv.CompareToBaseline(res.Metrics.RMSSD, importBaseline)
				fmt.Fprintf(out, "Baseline:     %+.1f%% (%s)\n", deviation, label)
			}
		}
		if res.EstimatedRMSSDMS != nil {
			fmt.Fprintf(out, "Estimated RMSSD: %.1f ms (from vendor SDNN, fixed-ratio)\n", *res.EstimatedRMSSDMS)
		}
	}

	return nil
}

func convertWithPlugin(ctx context.Context, data []byte) ([]models.Upload, error) {
	converter, err := plugin.NewConverter(ctx, importWasm)
	if err != nil {
		return nil, fmt.Errorf("failed to load converter plugin: %w", err)
	}
	defer converter.Close(ctx)

	var converted string
	switch importVendor {
	case "garmin":
		converted, err = converter.ConvertGarmin(ctx, string(data), importDeviceID)
	default:
		converted, err = converter.ConvertWhoop(ctx, string(data), importDeviceID)
	}
	if err != nil {
		return nil, fmt.Errorf("conversion failed: %w", err)
	}

	var uploads []models.Upload
	if err := json.Unmarshal([]byte(converted), &uploads); err != nil {
		// Single-upload plugins return one object instead of an array.
		var single models.Upload
		if err2 := json.Unmarshal([]byte(converted), &single); err2 != nil {
			return nil, fmt.Errorf("plugin returned invalid upload JSON: %w", err)
		}
		uploads = []models.Upload{single}
	}

	for i := range uploads {
		if err := uploads[i].Validate(); err != nil {
			return nil, fmt.Errorf("converted upload %d failed validation: %w", i, err)
		}
	}

	return uploads, nil
}
