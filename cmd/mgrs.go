package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bgraf/coordextract/gpx"
	"github.com/bgraf/coordextract/mgrs"
	"github.com/spf13/cobra"
)

// mgrsCmd represents the mgrs command
var mgrsCmd = &cobra.Command{
	Use:   "mgrs LAT,LON",
	Short: "Convert a latitude/longitude pair to MGRS",
	Example: `  coordextract mgrs 34.6195,-117.8319
  coordextract mgrs --precision 3 -- -33.8688,151.2093`,
	Args: cobra.ExactArgs(1),
	RunE: runMGRS,
}

// latlonCmd represents the latlon command
var latlonCmd = &cobra.Command{
	Use:   "latlon MGRS",
	Short: "Convert an MGRS reference to a latitude/longitude pair",
	Args:  cobra.ExactArgs(1),
	RunE:  runLatLon,
}

func init() {
	rootCmd.AddCommand(mgrsCmd)
	rootCmd.AddCommand(latlonCmd)

	mgrsCmd.Flags().IntP("precision", "p", mgrs.MaxDigits, "Digits per easting and northing, 0 to 5")
}

func runMGRS(cmd *cobra.Command, args []string) error {
	precision, err := cmd.Flags().GetInt("precision")
	if err != nil {
		return err
	}

	lat, lon, err := parseLatLon(args[0])
	if err != nil {
		return err
	}

	ref, err := mgrs.FromLatLonPrecision(lat, lon, precision)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), ref)
	return err
}

func runLatLon(cmd *cobra.Command, args []string) error {
	lat, lon, err := mgrs.ToLatLon(args[0])
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%.6f,%.6f\n", lat, lon)
	return err
}

// parseLatLon reads a "LAT,LON" pair.
func parseLatLon(s string) (float64, float64, error) {
	latText, lonText, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("%w: expected LAT,LON, got %q", gpx.ErrInvalidCoordinateValue, s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", gpx.ErrInvalidCoordinateValue, latText)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", gpx.ErrInvalidCoordinateValue, lonText)
	}

	return lat, lon, nil
}
