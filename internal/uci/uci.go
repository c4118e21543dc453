// Package uci implements the Universal Chess Interface protocol glue: a
// thin, line-oriented command dispatcher that drives the engine core and
// never itself decides how to search or evaluate a position. Spec's
// out-of-scope list names the protocol layer explicitly; it is kept here
// only because it is the program's entry point.
package uci

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/engine"
)

// UCI implements the Universal Chess Interface protocol over stdin/stdout.
type UCI struct {
	engine   *engine.Engine
	position *board.Position

	searching     bool
	searchDone    chan struct{}
	stopRequested atomic.Bool
}

// New creates a new UCI protocol handler driving the given engine.
func New(eng *engine.Engine) *UCI {
	return &UCI{
		engine:   eng,
		position: board.NewPosition(),
	}
}

// Run reads commands from stdin until "quit" or EOF, dispatching each line
// in the order it is received.
func (u *UCI) Run() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd := fields[0]
		args := fields[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleQuit()
			return
		case "setoption":
			u.handleSetOption(args)
		case "d":
			fmt.Println(u.position.String())
		case "perft":
			u.handlePerft(args)
		case "divide":
			u.handleDivide(args)
		}
	}
}

// handleUCI responds to the "uci" handshake.
func (u *UCI) handleUCI() {
	fmt.Println("id name ChessPlay")
	fmt.Println("id author ChessPlay Team")
	fmt.Println("option name Hash type spin default 16 min 1 max 4096")
	fmt.Println("uciok")
}

// handleNewGame resets search state for a fresh game, clearing the
// transposition table as required.
func (u *UCI) handleNewGame() {
	u.engine.Clear()
	u.position = board.NewPosition()
}

// handlePosition loads a position from "startpos" or a FEN string and
// applies any trailing "moves". A malformed FEN refuses the command and
// leaves the previously loaded position in place; an unparseable move in the
// trailing list stops applying further moves, and the position reached up to
// that move becomes the current one.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var pos *board.Position
	var rest []string

	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
		rest = args[1:]
	case "fen":
		fenEnd := len(args)
		for i := 1; i < len(args); i++ {
			if args[i] == "moves" {
				fenEnd = i
				break
			}
		}
		if fenEnd <= 1 {
			fmt.Fprintln(os.Stderr, "info string Invalid FEN: no FEN field given")
			return
		}
		fenStr := strings.Join(args[1:fenEnd], " ")
		p, err := board.ParseFEN(fenStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "info string Invalid FEN: %v\n", err)
			return
		}
		pos = p
		rest = args[fenEnd:]
	default:
		return
	}

	if len(rest) > 0 && rest[0] == "moves" {
		for _, moveStr := range rest[1:] {
			move, err := board.ParseMove(moveStr, pos)
			if err != nil {
				fmt.Fprintf(os.Stderr, "info string Invalid move %s: %v\n", moveStr, err)
				break
			}
			pos.MakeMove(move)
		}
	}

	u.position = pos
}

// GoOptions holds the parsed arguments of a "go" command, matching the
// full wtime/btime/winc/binc/movestogo/depth/nodes/movetime/infinite set.
type GoOptions struct {
	Depth     int
	Nodes     uint64
	MoveTime  time.Duration
	Infinite  bool
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
}

// handleGo parses search limits and runs the search in a goroutine so Run
// keeps reading input (notably "stop") while the search is in progress.
func (u *UCI) handleGo(args []string) {
	opts := parseGoOptions(args)

	u.engine.OnInfo = u.sendInfo

	pos := u.position.Copy()
	ply := 2*(pos.FullMoveNumber-1) + boolToInt(pos.SideToMove == board.Black)

	u.searching = true
	u.stopRequested.Store(false)
	u.searchDone = make(chan struct{})

	go func() {
		defer close(u.searchDone)

		var bestMove board.Move
		if opts.Infinite || opts.MoveTime > 0 || opts.WTime > 0 || opts.BTime > 0 {
			limits := engine.UCILimits{
				Time:      [2]time.Duration{opts.WTime, opts.BTime},
				Inc:       [2]time.Duration{opts.WInc, opts.BInc},
				MovesToGo: opts.MovesToGo,
				MoveTime:  opts.MoveTime,
				Depth:     opts.Depth,
				Nodes:     opts.Nodes,
				Infinite:  opts.Infinite,
			}
			bestMove = u.engine.SearchWithUCILimits(pos, limits, ply)
		} else {
			bestMove = u.engine.SearchWithLimits(pos, engine.SearchLimits{
				Depth:    opts.Depth,
				Nodes:    opts.Nodes,
				MoveTime: opts.MoveTime,
			})
		}

		fmt.Printf("bestmove %s\n", bestMove.String())
		u.searching = false
	}()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseGoOptions parses "go" command arguments.
func parseGoOptions(args []string) GoOptions {
	var opts GoOptions

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "nodes":
			if i+1 < len(args) {
				opts.Nodes, _ = strconv.ParseUint(args[i+1], 10, 64)
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "infinite":
			opts.Infinite = true
		case "wtime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.WTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "btime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.BTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "winc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.WInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "binc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.BInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "movestogo":
			if i+1 < len(args) {
				opts.MovesToGo, _ = strconv.Atoi(args[i+1])
				i++
			}
		}
	}

	return opts
}

// sendInfo emits one completed iteration as a UCI "info" line.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))

	if info.Score > engine.MateScore-128 {
		mateIn := (engine.MateScore - info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else if info.Score < -engine.MateScore+128 {
		mateIn := -(engine.MateScore + info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	parts = append(parts, fmt.Sprintf("hashfull %d", info.HashFull))

	if len(info.PV) > 0 {
		moveStrs := make([]string, len(info.PV))
		for i, m := range info.PV {
			moveStrs[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(moveStrs, " "))
	}

	fmt.Printf("info %s\n", strings.Join(parts, " "))
}

// handleStop cancels a running search and waits for its bestmove line to be
// emitted before returning, so "stop" followed immediately by "quit" does
// not race the search goroutine.
func (u *UCI) handleStop() {
	if u.searching {
		u.stopRequested.Store(true)
		u.engine.Stop()
		<-u.searchDone
	}
}

// handleQuit stops any running search before the process exits.
func (u *UCI) handleQuit() {
	u.handleStop()
}

// handleSetOption processes "setoption name <name> value <value>". Hash is
// the only option the core search actually has a use for; anything else is
// accepted and ignored, per UCI convention for unrecognized options.
func (u *UCI) handleSetOption(args []string) {
	var name, value string
	readingName, readingValue := false, false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName, readingValue = true, false
		case "value":
			readingName, readingValue = false, true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err == nil && mb > 0 {
			entries := (mb * 1024 * 1024) / 16 // 16 bytes per TT slot
			u.engine.Resize(entries)
		}
	}
}

// handlePerft runs a plain perft count from the current position.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}

	start := time.Now()
	nodes := board.Perft(u.position, depth)
	elapsed := time.Since(start)

	fmt.Printf("Nodes: %d\n", nodes)
	fmt.Printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}

// handleDivide runs a per-root-move perft breakdown, the supplemented
// feature mirroring ferris-chess-board's divide.
func (u *UCI) handleDivide(args []string) {
	depth := 5
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}

	breakdown := board.PerftDivide(u.position, depth)
	var total uint64
	for move, count := range breakdown {
		fmt.Printf("%s: %d\n", move, count)
		total += count
	}
	fmt.Printf("\nTotal: %d\n", total)
}
