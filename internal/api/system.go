package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
	"github.com/spf13/cast"
	"github.com/vendormart/vendormart/internal/webserver"
	"github.com/vendormart/vendormart/pkg/metrics"
)

func registerSystemRoutes() {
	webserver.PubGET("/health", health)
	webserver.ApiGET("/system/status", systemStatus)
	webserver.ApiGET("/system/metrics", systemMetrics)
}

func health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "time": time.Now().Format(time.RFC3339)})
}

func systemStatus(c echo.Context) error {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to read memory stats", nil)
	}
	info, err := host.Info()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to read host info", nil)
	}

	cpuPercent := 0.0
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		cpuPercent = percents[0]
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return ok(c, http.StatusOK, "System status fetched", echo.Map{
		"hostname":      info.Hostname,
		"os":            info.OS,
		"platform":      info.Platform,
		"uptimeSeconds": info.Uptime,
		"cpuPercent":    cpuPercent,
		"memory": echo.Map{
			"total":       vm.Total,
			"used":        vm.Used,
			"usedPercent": vm.UsedPercent,
		},
		"process": echo.Map{
			"goroutines": runtime.NumGoroutine(),
			"heapAlloc":  ms.HeapAlloc,
			"numGC":      ms.NumGC,
		},
	})
}

// systemMetrics exposes the raw counter points for the last 24 hours,
// or a custom window via from/to unix seconds.
func systemMetrics(c echo.Context) error {
	end := time.Now()
	start := end.Add(-24 * time.Hour)
	if v := c.QueryParam("from"); v != "" {
		start = time.Unix(cast.ToInt64(v), 0)
	}
	if v := c.QueryParam("to"); v != "" {
		end = time.Unix(cast.ToInt64(v), 0)
	}

	out := echo.Map{}
	for _, name := range []string{metrics.MOrdersCreated, metrics.MCartsUpdated, metrics.MOtpSent} {
		points, err := metrics.Range(name, start, end)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "Failed to read metrics", nil)
		}
		total := 0.0
		for _, p := range points {
			total += p.Value
		}
		out[name] = echo.Map{"total": total, "points": len(points)}
	}
	return ok(c, http.StatusOK, "Metrics fetched", out)
}
