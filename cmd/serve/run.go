package serve

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bgraf/coordextract/config"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// Options configure the HTTP engine.
type Options struct {
	// MaxUploadBytes limits request bodies; zero means no limit.
	MaxUploadBytes int64
	Log            *slog.Logger
}

func RunServeCmd(cmd *cobra.Command, args []string) error {
	addr := config.ServeAddress()

	gin.SetMode(gin.ReleaseMode)
	r := NewEngine(Options{
		MaxUploadBytes: config.MaxUploadBytes(),
		Log:            slog.Default(),
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		slog.Info("listening", slog.String("addr", addr))
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-cmd.Context().Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// NewEngine builds the gin engine serving the conversion API.
func NewEngine(opts Options) *gin.Engine {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(opts.Log))

	api := newServeAPI(opts)
	r.POST("/convert", api.ServeConvert)
	r.GET("/mgrs", api.ServeMGRS)
	r.GET("/latlon", api.ServeLatLon)
	r.POST("/info", api.ServeInfo)

	return r
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Debug("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("took", time.Since(start)),
		)
	}
}
