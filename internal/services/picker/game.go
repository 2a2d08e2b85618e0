// Package picker implements the turn-based option-selection game.
//
// A game collects options from its players in ring order until a single
// option remains and the player on turn selects it. Players can be moved
// to a read-only watcher role by the admin, and an optional policy kicks
// the remover to the watchers once the option list is emptied.
package picker

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/what2pick/internal/platform/errors"
	"github.com/louisbranch/what2pick/internal/platform/storage/sqlspec"
)

// OptionMaxLen caps option text in characters.
const OptionMaxLen = 30

var gameSchema = sqlspec.MustSchema("payshoff",
	sqlspec.Field{Name: "gameid", Column: sqlspec.PrimaryKey(sqlspec.Resolve(sqlspec.KindText))},
	sqlspec.Field{Name: "admin", Column: sqlspec.Resolve(sqlspec.KindText)},
	sqlspec.Field{Name: "players", Column: sqlspec.CSV(sqlspec.Resolve(sqlspec.KindText))},
	sqlspec.Field{Name: "watchers", Column: sqlspec.CSV(sqlspec.Resolve(sqlspec.KindText))},
	sqlspec.Field{Name: "next_player", Column: sqlspec.Resolve(sqlspec.KindText)},
	sqlspec.Field{Name: "must_add", Column: sqlspec.CSV(sqlspec.Resolve(sqlspec.KindText))},
	sqlspec.Field{Name: "options", Column: sqlspec.TSV(sqlspec.Resolve(sqlspec.KindText))},
	sqlspec.Field{Name: "decided", Column: sqlspec.Resolve(sqlspec.KindBool)},
	sqlspec.Field{Name: "kick_on_last_remove", Column: sqlspec.Resolve(sqlspec.KindBool)},
	sqlspec.Field{Name: "last_access", Column: sqlspec.Resolve(sqlspec.KindTime)},
)

// Game is one selection game. Players are ordered and unique, watchers
// are disjoint from players, and next_player is always a player.
type Game struct {
	ID               string
	Admin            string
	Players          []string
	Watchers         []string
	NextPlayer       string
	MustAdd          []string
	Options          []string
	Decided          bool
	KickOnLastRemove bool
	LastAccess       time.Time

	record *sqlspec.Record
}

func newGame(id, creator string) *Game {
	return &Game{
		ID:         id,
		Admin:      creator,
		Players:    []string{creator},
		Watchers:   []string{},
		NextPlayer: creator,
		MustAdd:    []string{creator},
		Options:    []string{},
	}
}

func fromRecord(record *sqlspec.Record) *Game {
	return &Game{
		ID:               record.Get("gameid").(string),
		Admin:            record.Get("admin").(string),
		Players:          record.Get("players").([]string),
		Watchers:         record.Get("watchers").([]string),
		NextPlayer:       record.Get("next_player").(string),
		MustAdd:          record.Get("must_add").([]string),
		Options:          record.Get("options").([]string),
		Decided:          record.Get("decided").(bool),
		KickOnLastRemove: record.Get("kick_on_last_remove").(bool),
		LastAccess:       record.Get("last_access").(time.Time),
		record:           record,
	}
}

func (g *Game) syncRecord() *sqlspec.Record {
	if g.record == nil {
		g.record = sqlspec.NewRecord(gameSchema)
	}
	g.record.Set("gameid", g.ID)
	g.record.Set("admin", g.Admin)
	g.record.Set("players", g.Players)
	g.record.Set("watchers", g.Watchers)
	g.record.Set("next_player", g.NextPlayer)
	g.record.Set("must_add", g.MustAdd)
	g.record.Set("options", g.Options)
	g.record.Set("decided", g.Decided)
	g.record.Set("kick_on_last_remove", g.KickOnLastRemove)
	g.record.Set("last_access", g.LastAccess)
	return g.record
}

// IsPlayer reports whether uid participates in turn order.
func (g *Game) IsPlayer(uid string) bool {
	return slices.Contains(g.Players, uid)
}

// IsWatcher reports whether uid observes without a turn.
func (g *Game) IsWatcher(uid string) bool {
	return slices.Contains(g.Watchers, uid)
}

// InMustAdd reports whether uid still owes an option this round.
func (g *Game) InMustAdd(uid string) bool {
	return slices.Contains(g.MustAdd, uid)
}

// advanceNextPlayer moves the turn to the next player in ring order,
// always computed from the current next player.
func (g *Game) advanceNextPlayer() {
	index := slices.Index(g.Players, g.NextPlayer)
	if index < 0 {
		index = 0
	}
	g.NextPlayer = g.Players[(index+1)%len(g.Players)]
}

func (g *Game) removeFromMustAdd(uid string) {
	if index := slices.Index(g.MustAdd, uid); index >= 0 {
		g.MustAdd = slices.Delete(g.MustAdd, index, index+1)
	}
}

// join adds uid as a player. Existing players and watchers are a no-op;
// joining a decided game is rejected.
func (g *Game) join(uid string) (bool, *errors.Error) {
	if g.IsPlayer(uid) || g.IsWatcher(uid) {
		return false, nil
	}
	if g.Decided {
		return false, errors.New(errors.CodeGameAlreadyDecided, "game is already decided")
	}
	g.Players = append(g.Players, uid)
	g.MustAdd = append(g.MustAdd, uid)
	return true, nil
}

// addOption appends a sanitized option for the player on turn.
func (g *Game) addOption(uid, text string) *errors.Error {
	if g.Decided {
		return errors.New(errors.CodeGameAlreadyDecided, "game is already decided")
	}
	if uid != g.NextPlayer {
		return errors.New(errors.CodeNotYourTurn, "only the player on turn can add")
	}
	g.Options = append(g.Options, sanitizeOption(text))
	g.removeFromMustAdd(uid)
	g.advanceNextPlayer()
	return nil
}

// removeOption deletes the option at index for the player on turn or the
// admin, optionally kicking the remover once the list is emptied.
func (g *Game) removeOption(uid string, index int) *errors.Error {
	if g.Decided {
		return errors.New(errors.CodeGameAlreadyDecided, "game is already decided")
	}
	if uid != g.NextPlayer && uid != g.Admin {
		return errors.New(errors.CodeNotYourTurn, "only the player on turn or the admin can remove")
	}
	if index < 0 || index >= len(g.Options) {
		return errors.WithMetadata(errors.CodeIndexOutOfRange, "option index out of range", map[string]string{
			"index": strconv.Itoa(index),
		})
	}
	if g.InMustAdd(g.NextPlayer) {
		return errors.New(errors.CodeMustAddFirst, "everyone must add before removing")
	}
	if len(g.Options) == 1 && len(g.Players) == 1 {
		return errors.New(errors.CodeMustSelectInstead, "last option must be selected, not removed")
	}

	g.Options = slices.Delete(g.Options, index, index+1)
	if uid == g.NextPlayer {
		g.advanceNextPlayer()
	}
	if len(g.Options) == 0 && g.KickOnLastRemove && len(g.Players) > 1 && g.IsPlayer(uid) {
		// Never remove the last player; advance off the remover first.
		if g.NextPlayer == uid {
			g.advanceNextPlayer()
		}
		playerIndex := slices.Index(g.Players, uid)
		g.Players = slices.Delete(g.Players, playerIndex, playerIndex+1)
		g.Watchers = append(g.Watchers, uid)
		g.removeFromMustAdd(uid)
	}
	return nil
}

// selectFinal marks the game decided once a single option remains.
func (g *Game) selectFinal(uid string) *errors.Error {
	if g.Decided {
		return errors.New(errors.CodeGameAlreadyDecided, "game is already decided")
	}
	if uid != g.NextPlayer {
		return errors.New(errors.CodeNotYourTurn, "only the player on turn can select")
	}
	if len(g.MustAdd) > 0 {
		return errors.New(errors.CodeMustAddFirst, "everyone must add before selecting")
	}
	if len(g.Options) != 1 {
		return errors.New(errors.CodeInvalidSelection, "selection requires exactly one remaining option")
	}
	g.Decided = true
	return nil
}

// skipNext lets the admin advance the turn without consuming an option.
func (g *Game) skipNext(uid string) *errors.Error {
	if g.Decided {
		return errors.New(errors.CodeGameAlreadyDecided, "game is already decided")
	}
	if uid != g.Admin {
		return errors.New(errors.CodeNotAdmin, "only the admin can skip")
	}
	g.advanceNextPlayer()
	return nil
}

// setPlayerToWatcher moves target out of turn order into the watchers.
func (g *Game) setPlayerToWatcher(adminUID, target string) *errors.Error {
	if g.Decided {
		return errors.New(errors.CodeGameAlreadyDecided, "game is already decided")
	}
	if adminUID != g.Admin {
		return errors.New(errors.CodeNotAdmin, "only the admin can move players to watchers")
	}
	if len(g.Players) <= 1 {
		return errors.New(errors.CodeCannotRemoveLastPlayer, "a game keeps at least one player")
	}
	if g.IsWatcher(target) {
		return errors.New(errors.CodeAlreadyWatcher, "target is already a watcher")
	}
	if !g.IsPlayer(target) {
		return errors.New(errors.CodeNotFound, "target is not a player")
	}

	if g.NextPlayer == target {
		g.advanceNextPlayer()
	}
	index := slices.Index(g.Players, target)
	g.Players = slices.Delete(g.Players, index, index+1)
	g.Watchers = append(g.Watchers, target)
	g.removeFromMustAdd(target)
	return nil
}

// toggleKickOnLastRemove flips the kick-on-last-remove policy.
func (g *Game) toggleKickOnLastRemove(uid string) *errors.Error {
	if g.Decided {
		return errors.New(errors.CodeGameAlreadyDecided, "game is already decided")
	}
	if uid != g.Admin {
		return errors.New(errors.CodeNotAdmin, "only the admin can change the policy")
	}
	g.KickOnLastRemove = !g.KickOnLastRemove
	return nil
}

// sanitizeOption truncates to OptionMaxLen characters and strips the
// tab separator reserved by the storage encoding.
func sanitizeOption(text string) string {
	runes := []rune(text)
	if len(runes) > OptionMaxLen {
		runes = runes[:OptionMaxLen]
	}
	return strings.ReplaceAll(string(runes), "\t", "_")
}
