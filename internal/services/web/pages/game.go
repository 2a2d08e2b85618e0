package pages

import (
	"context"
	"html"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// PlayerView is one roster entry on the game page.
type PlayerView struct {
	UID      string
	Name     string
	OnTurn   bool
	Watching bool
}

// GameView carries everything the game page needs, with the action
// gates computed server-side.
type GameView struct {
	GameID           string
	Username         string
	CurrentPlayer    string
	Options          []string
	Players          []PlayerView
	CanAdd           bool
	CanRemove        bool
	CanSelect        bool
	AmAdmin          bool
	Decided          bool
	KickOnLastRemove bool
}

// Game renders the game page with the long-poll reload script.
func Game(view GameView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		gid := html.EscapeString(view.GameID)

		var b []byte
		b = append(b, `<!doctype html>
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
        <p>Playing as <strong>`+html.EscapeString(view.Username)+`</strong></p>
`...)
		if view.Decided {
			b = append(b, `        <p class="decided">Decided!</p>
`...)
		} else {
			b = append(b, `        <p>Waiting on <strong>`+html.EscapeString(view.CurrentPlayer)+`</strong></p>
`...)
		}
		b = append(b, `      </header>
      <section class="panel">
        <ol id="options">
`...)
		for i, option := range view.Options {
			b = append(b, `          <li>`+html.EscapeString(option)...)
			if view.CanRemove && !view.Decided {
				b = append(b, ` <button class="remove-item" gameid="`+gid+`" option="`+strconv.Itoa(i)+`">remove</button>`...)
			}
			b = append(b, "</li>\n"...)
		}
		b = append(b, `        </ol>
`...)
		if view.CanAdd {
			b = append(b, `        <button id="add-new-item" gameid="`+gid+`">Add option</button>
`...)
		}
		if view.CanSelect {
			b = append(b, `        <button id="select-item" gameid="`+gid+`">Pick it</button>
`...)
		}
		b = append(b, `      </section>
      <section class="panel">
        <ul id="players">
`...)
		for _, player := range view.Players {
			b = append(b, `          <li><span>`+html.EscapeString(player.Name)+`</span>`...)
			if player.OnTurn {
				b = append(b, ` <em>on turn</em>`...)
			}
			if player.Watching {
				b = append(b, ` <em>watching</em>`...)
			}
			if view.AmAdmin && !player.Watching {
				b = append(b, ` <button class="to-watcher" gameid="`+gid+`" target="`+html.EscapeString(player.UID)+`">bench</button>`...)
			}
			b = append(b, "</li>\n"...)
		}
		b = append(b, `        </ul>
`...)
		if view.AmAdmin {
			kickLabel := "kick on last remove: off"
			if view.KickOnLastRemove {
				kickLabel = "kick on last remove: on"
			}
			b = append(b, `        <button id="adm-skip" gameid="`+gid+`">Skip turn</button>
        <button id="adm-kickmode" gameid="`+gid+`">`+kickLabel+`</button>
`...)
		}
		b = append(b, `      </section>
    </main>
    <script>
      function act(el, getData, action, onerr) {
        if (!el) return;
        el.addEventListener("click", e => {
          const gameid = e.target.attributes["gameid"].value;
          const data = getData(e.target);
          if (data === null) return;
          fetch("/p/" + gameid + "/" + action, {
            method: "POST",
            headers: { "Content-Type": "application/json" },
            body: JSON.stringify(data)
          }).then(res => {
            if (res.ok) { window.location.reload(); return null; }
            return res.text();
          }).then(err => { if (err) onerr(err); });
        });
      }

      act(document.getElementById("add-new-item"), () => {
        const option = prompt("Add option");
        if (option === null) return null;
        return { option };
      }, "add", alert);
      act(document.getElementById("select-item"), () => ({}), "sel", alert);
      act(document.getElementById("adm-skip"), () => ({}), "adm_skip", alert);
      act(document.getElementById("adm-kickmode"), () => ({}), "kickmode", alert);
      for (const el of document.getElementsByClassName("remove-item")) {
        act(el, t => ({ option: parseInt(t.attributes["option"].value, 10) }), "del", alert);
      }
      for (const el of document.getElementsByClassName("to-watcher")) {
        act(el, t => ({ target: t.attributes["target"].value }), "watch", alert);
      }
`...)
		if !view.Decided {
			b = append(b, `
      async function poll() {
        try {
          const res = await fetch("/p/`+gid+`/poll");
          if (res.ok && (await res.text()) === "reload") {
            window.location.reload();
            return;
          }
        } catch (err) {}
        setTimeout(poll, 1000);
      }
      poll();
`...)
		}
		b = append(b, `    </script>
  </body>
</html>
`...)
		_, err := w.Write(b)
		return err
	})
}
