package cmd

import (
	"github.com/bgraf/coordextract/cmd/serve"
	"github.com/bgraf/coordextract/config"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve conversions over HTTP",
	Long: `Serve starts an HTTP server offering the conversions of this tool:

  POST /convert   GPX body, responds with the point records
  GET  /mgrs      ?lat=&lon=[&precision=], responds with the MGRS reference
  GET  /latlon    ?mgrs=, responds with the position
  POST /info      GPX body, responds with a structural summary`,
	Args: cobra.NoArgs,
	RunE: serve.RunServeCmd,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	bindFlag(serveCmd, config.KeyServeAddress, "addr", "a", ":8000", "Address to listen on")
}
