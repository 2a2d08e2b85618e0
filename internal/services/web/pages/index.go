// Package pages renders the HTML surface as templ components.
package pages

import (
	"context"
	"html"
	"io"

	"github.com/a-h/templ"
)

// Index is the landing page with the create-game entry point and the
// inline display-name editor.
func Index(username string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>what2pick</title>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <h1>what2pick</h1>
        <p>Can't decide? Everyone adds, everyone strikes, the last option wins.</p>
        <p>Playing as <strong id="current-username">`+html.EscapeString(username)+`</strong>
           <button id="username-edit">rename</button></p>
      </header>
      <section class="panel">
        <a class="primary" href="/p">Start a game</a>
        <p>Share the game link and take turns.</p>
      </section>
    </main>
    <script>
      const username = document.getElementById("current-username").textContent;
      document.getElementById("username-edit").addEventListener("click", () => {
        const name = prompt("Change name", username);
        if (name === null) return;
        fetch("/setname", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ name })
        }).then(() => window.location.reload());
      });
    </script>
  </body>
</html>
`)
		return err
	})
}

// OpenInBrowser is served to in-app browsers that break cookie sessions.
func OpenInBrowser() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!doctype html>
<html lang="en">
  <head><meta charset="utf-8"/><title>what2pick</title></head>
  <body>
    <p>This in-app browser does not keep sessions. Please open the link in your regular browser.</p>
  </body>
</html>
`)
		return err
	})
}
