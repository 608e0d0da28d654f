package api

import (
	"html/template"
	"net/http"
)

func (s *Server) handleWebIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		AuthEnabled bool
		StreamAuth  bool
	}{
		AuthEnabled: s.Config.AuthEnabled(),
		StreamAuth:  s.Config.AuthEnabled() && s.Config.StreamAuth,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		logFrom(r.Context()).Error("Template execution failed", "error", err, "remote", r.RemoteAddr)
	}
}

var indexTmpl = template.Must(template.New("index").Parse(`
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>DJ Audio API</title>
    <style>
        :root { --bg: #121212; --card: #1e1e1e; --text: #e0e0e0; --accent: #ff4444; }
        body { background: var(--bg); color: var(--text); font-family: system-ui, sans-serif; display: grid; place-items: center; min-height: 100vh; margin: 0; }
        .container { background: var(--card); padding: 2rem; border-radius: 12px; box-shadow: 0 10px 30px rgba(0,0,0,0.5); width: 90%; max-width: 400px; text-align: center; }
        h1 { margin: 0 0 1rem; font-size: 1.5rem; color: var(--accent); }
        input { width: 100%; padding: 12px; margin: 10px 0; border: 1px solid #333; border-radius: 6px; background: #252525; color: #fff; box-sizing: border-box; outline: none; }
        input:focus { border-color: var(--accent); }
        button { width: 100%; padding: 12px; border: none; border-radius: 6px; background: var(--accent); color: white; font-weight: bold; cursor: pointer; transition: 0.2s; }
        button:hover { opacity: 0.9; }
        button:disabled { background: #555; cursor: not-allowed; }
        #result { margin-top: 20px; line-height: 1.6; word-break: break-word; }
        a { display: inline-block; margin: 5px; color: #4ea8de; text-decoration: none; border: 1px solid #4ea8de; padding: 5px 10px; border-radius: 4px; font-size: 0.9rem; }
        a:hover { background: #4ea8de; color: #fff; }
        audio { width: 100%; margin-top: 10px; }
        .error { color: var(--accent); font-size: 0.9rem; }
    </style>
</head>
<body>
    <div class="container">
        <h1>DJ Audio API</h1>
        <form id="resolveForm">
            <input type="url" id="url" placeholder="Paste a YouTube or audio URL..." required>
            {{if .AuthEnabled}}<input type="password" id="key" placeholder="API key" required>{{end}}
            <button type="submit" id="btn">Resolve &amp; Play</button>
        </form>
        <div id="result"></div>
    </div>

    <script>
        const f = document.getElementById('resolveForm'),
              r = document.getElementById('result'),
              b = document.getElementById('btn'),
              streamAuth = {{.StreamAuth}};

        f.onsubmit = async (e) => {
            e.preventDefault();
            b.disabled = true;
            r.textContent = 'Resolving...';

            const headers = {'Content-Type': 'application/json'};
            const k = document.getElementById('key');
            if (k) headers['X-API-Key'] = k.value;

            try {
                const resp = await fetch('/resolve', {
                    method: 'POST',
                    headers: headers,
                    body: JSON.stringify({url: document.getElementById('url').value})
                });
                const data = await resp.json();

                if (!resp.ok) throw new Error(data.error);
                r.innerHTML = '';
                const player = document.createElement('audio');
                player.controls = true;
                player.autoplay = true;
                let src = data.audio_url;
                if (streamAuth && k && src.includes('/stream?')) src += '&api_key=' + encodeURIComponent(k.value);
                player.src = src;
                const link = document.createElement('a');
                link.href = data.audio_url;
                link.target = '_blank';
                link.textContent = 'Open audio URL';
                r.append(player, link);

            } catch (err) {
                r.innerHTML = '';
                const d = document.createElement('div');
                d.className = 'error';
                d.textContent = err.message;
                r.append(d);
            } finally {
                b.disabled = false;
            }
        };
    </script>
</body>
</html>
`))
