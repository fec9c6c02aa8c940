package monitor

import (
	"io"
	"net/http"
	"os"

	"energy-center-checklist/middleware"

	"github.com/gin-gonic/gin"
)

// maxLogBytes caps how much of the log file /logs returns.
const maxLogBytes = 256 << 10

// RegisterMonitorPage mounts a small page polling /health and /logs.
func RegisterMonitorPage(router gin.IRoutes, tokenHash string) {
	router.GET("/monitor", middleware.TokenHashAuth(tokenHash), func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(monitorPage))
	})
}

// RegisterLogsRoute serves the tail of the application log file.
func RegisterLogsRoute(router gin.IRoutes, logPath, tokenHash string) {
	router.GET("/logs", middleware.TokenHashAuth(tokenHash), func(c *gin.Context) {
		data, err := tailFile(logPath, maxLogBytes)
		if err != nil {
			c.String(http.StatusInternalServerError, "Não foi possível ler o log")
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", data)
	})
}

func tailFile(path string, max int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if size := info.Size(); size > max {
		if _, err := f.Seek(size-max, io.SeekStart); err != nil {
			return nil, err
		}
	}
	return io.ReadAll(f)
}

const monitorPage = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>Monitor - Central de Energia</title>
  <style>
    body { background: #0f172a; color: #e2e8f0; font-family: system-ui, sans-serif; margin: 0; padding: 20px; }
    .container { max-width: 1100px; margin: 0 auto; }
    .card { background: #111827; border: 1px solid #1f2937; border-radius: 12px; padding: 16px; margin-bottom: 16px; }
    #logs { background: #020617; padding: 12px; border-radius: 8px; max-height: 520px; overflow-y: auto; white-space: pre-wrap; font-family: monospace; font-size: 0.8rem; }
    button { padding: 8px 14px; border-radius: 8px; border: 1px solid #334155; background: #1e293b; color: #e2e8f0; cursor: pointer; }
  </style>
</head>
<body>
  <div class="container">
    <h1>Monitor</h1>
    <div class="card"><span id="status">Status: verificando...</span></div>
    <div class="card">
      <button onclick="toggleLive()" id="toggleBtn">Pausar</button>
      <pre id="logs">Carregando...</pre>
    </div>
  </div>
  <script>
    let live = true;
    const token = new URLSearchParams(location.search).get('token') || '';
    const logs = document.getElementById('logs');
    const status = document.getElementById('status');

    function fetchStatus() {
      fetch('/health')
        .then(res => res.json())
        .then(data => { status.textContent = 'Status: ' + (data.status === 'ok' ? 'online' : 'degradado'); })
        .catch(() => { status.textContent = 'Status: offline'; });
    }

    function fetchLogs() {
      if (!live) return;
      fetch('/logs?token=' + encodeURIComponent(token))
        .then(res => res.text())
        .then(data => { logs.textContent = data; logs.scrollTop = logs.scrollHeight; });
    }

    function toggleLive() {
      live = !live;
      document.getElementById('toggleBtn').textContent = live ? 'Pausar' : 'Retomar';
    }

    fetchStatus();
    fetchLogs();
    setInterval(fetchStatus, 5000);
    setInterval(fetchLogs, 5000);
  </script>
</body>
</html>`
