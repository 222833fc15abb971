package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Host Page
// ============================================================

// Page отдаёт браузерную страницу: DOM события мыши уходят в API,
// кадр перерисовывается из /api/v1/render, подсказка рисуется у курсора.
func Page(c fiber.Ctx) error {
	page := `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>Floor Plan Viewer</title>
  <style>
    html, body { margin: 0; height: 100%; overflow: hidden; }
    #frame { position: absolute; inset: 0; user-select: none; }
    #tooltip {
      position: absolute; display: none; pointer-events: none;
      background: #ffd; border: 1px solid #999; padding: 2px 6px;
      font: 12px sans-serif;
    }
    #file { position: absolute; right: 8px; top: 8px; }
  </style>
</head>
<body>
<div id="frame"></div>
<div id="tooltip"></div>
<input id="file" type="file" accept=".json,.svg">
<script>
  const api = '/api/v1';
  const frame = document.getElementById('frame');
  const tooltip = document.getElementById('tooltip');

  async function post(path, body) {
    const resp = await fetch(api + path, {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify(body || {}),
    });
    return resp.json();
  }

  async function redraw() {
    const resp = await fetch(api + '/render');
    frame.innerHTML = await resp.text();
  }

  function showTooltip(snap) {
    const tip = snap && snap.tooltip;
    if (!tip || !tip.visible) {
      tooltip.style.display = 'none';
      return;
    }
    tooltip.textContent = tip.text;
    tooltip.style.left = (tip.x + 12) + 'px';
    tooltip.style.top = (tip.y + 12) + 'px';
    tooltip.style.display = 'block';
  }

  function point(e) {
    const r = frame.getBoundingClientRect();
    return { x: e.clientX - r.left, y: e.clientY - r.top };
  }

  frame.addEventListener('mousedown', async (e) => {
    await post('/pointer/down', point(e));
  });
  frame.addEventListener('mousemove', async (e) => {
    const snap = await post('/pointer/move', point(e));
    showTooltip(snap);
    if (snap.dragging) await redraw();
  });
  window.addEventListener('mouseup', async () => {
    await post('/pointer/up');
  });
  frame.addEventListener('wheel', async (e) => {
    e.preventDefault();
    await post('/wheel', { deltaY: e.deltaY });
    await redraw();
  }, { passive: false });
  window.addEventListener('resize', async () => {
    await post('/resize', { width: window.innerWidth, height: window.innerHeight });
    await redraw();
  });

  document.getElementById('file').addEventListener('change', async (e) => {
    const data = new FormData();
    data.append('file', e.target.files[0]);
    const resp = await fetch(api + '/plan', { method: 'POST', body: data });
    if (!resp.ok) {
      alert((await resp.json()).error);
      return;
    }
    await redraw();
  });

  window.onload = async () => {
    await post('/resize', { width: window.innerWidth, height: window.innerHeight });
    await redraw();
  };
</script>
</body>
</html>`

	c.Type("html")
	return c.SendString(page)
}
