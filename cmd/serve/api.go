package serve

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bgraf/coordextract/export"
	"github.com/bgraf/coordextract/gpx"
	"github.com/bgraf/coordextract/mgrs"
	"github.com/bgraf/coordextract/pipeline"
	"github.com/bgraf/coordextract/point"
	"github.com/gin-gonic/gin"
)

type serveAPI struct {
	maxUpload int64
	log       *slog.Logger
}

func newServeAPI(opts Options) *serveAPI {
	return &serveAPI{
		maxUpload: opts.MaxUploadBytes,
		log:       opts.Log,
	}
}

func (api *serveAPI) ServeConvert(c *gin.Context) {
	data, ok := api.readBody(c)
	if !ok {
		return
	}

	mode := point.FailFast
	if c.Query("best_effort") == "true" {
		mode = point.BestEffort
	}

	indent := uint(0)
	if s := c.Query("indent"); s != "" {
		n, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidParameter", "message": "indent must be a small non-negative integer"})
			return
		}
		indent = uint(n)
	}

	records, stats, err := pipeline.Convert(data, point.NewBuilder(mode, api.log))
	if err != nil {
		api.fail(c, err)
		return
	}

	out, err := export.Render(records, export.JSON, indent)
	if err != nil {
		api.fail(c, err)
		return
	}

	c.Header("X-Points-Built", strconv.Itoa(stats.Built))
	c.Header("X-Points-Skipped", strconv.Itoa(stats.Skipped))
	c.Header("X-Points-Failed", strconv.Itoa(stats.Failed))
	c.Data(http.StatusOK, "application/json; charset=utf-8", out)
}

func (api *serveAPI) ServeMGRS(c *gin.Context) {
	lat, err := queryFloat(c, "lat")
	if err != nil {
		api.fail(c, err)
		return
	}

	lon, err := queryFloat(c, "lon")
	if err != nil {
		api.fail(c, err)
		return
	}

	precision := mgrs.MaxDigits
	if s := c.Query("precision"); s != "" {
		precision, err = strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidParameter", "message": "precision must be an integer"})
			return
		}
	}

	ref, err := mgrs.FromLatLonPrecision(lat, lon, precision)
	if err != nil {
		api.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mgrs": ref})
}

func (api *serveAPI) ServeLatLon(c *gin.Context) {
	lat, lon, err := mgrs.ToLatLon(c.Query("mgrs"))
	if err != nil {
		api.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"latitude": lat, "longitude": lon})
}

func (api *serveAPI) ServeInfo(c *gin.Context) {
	data, ok := api.readBody(c)
	if !ok {
		return
	}

	info, err := pipeline.Describe(data)
	if err != nil {
		api.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

func (api *serveAPI) readBody(c *gin.Context) ([]byte, bool) {
	body := c.Request.Body
	if api.maxUpload > 0 {
		body = http.MaxBytesReader(c.Writer, body, api.maxUpload)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "RequestTooLarge", "message": err.Error()})
			return nil, false
		}
		api.fail(c, err)
		return nil, false
	}

	return data, true
}

// fail responds with the classified error.
func (api *serveAPI) fail(c *gin.Context, err error) {
	kind := pipeline.Classify(err)
	status := statusOf(kind)
	if status >= http.StatusInternalServerError {
		api.log.Error("request failed", slog.String("path", c.Request.URL.Path), slog.Any("error", err))
	}

	_ = c.Error(err)
	c.JSON(status, gin.H{"error": kind.Name, "message": err.Error()})
}

func statusOf(kind pipeline.ErrorKind) int {
	switch kind {
	case pipeline.KindConversion, pipeline.KindInvalidLatitude, pipeline.KindInvalidLongitude, pipeline.KindInvalidMGRS:
		return http.StatusUnprocessableEntity
	}
	if kind.Input {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func queryFloat(c *gin.Context, name string) (float64, error) {
	s := c.Query(name)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", gpx.ErrInvalidCoordinateValue, name, s)
	}
	return v, nil
}
