package world

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Encode returns the level file form of the grid: one "x,y=tag" line per
// non-ground cell in row-major order. Ground is implicit.
func (g *Grid) Encode() []byte {
	var buf bytes.Buffer
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			t := g.Tiles[y][x]
			if t == TileGround {
				continue
			}
			buf.WriteString(strconv.Itoa(x))
			buf.WriteByte(',')
			buf.WriteString(strconv.Itoa(y))
			buf.WriteByte('=')
			buf.WriteString(strconv.Itoa(int(t)))
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// WriteLevelFile writes the grid to a uniquely named file inside dir and
// returns its path.
func WriteLevelFile(dir string, g *Grid) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create level dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, "level-"+uuid.NewString()+".lvl")
	if err := os.WriteFile(path, g.Encode(), 0o644); err != nil {
		return "", fmt.Errorf("write level file: %w", err)
	}
	return path, nil
}

// LoadLevel parses a level file into a grid of the given size. The file has
// no header, so the dimensions come from the caller. Cells not mentioned are
// ground. Malformed or out-of-range lines are skipped; the returned error
// joins one diagnostic per skipped line and is nil when every line loaded.
func LoadLevel(r io.Reader, width, height int) (*Grid, error) {
	g := &Grid{Width: width, Height: height, Tiles: make([][]Tile, height)}
	for y := range g.Tiles {
		g.Tiles[y] = make([]Tile, width)
		for x := range g.Tiles[y] {
			g.Tiles[y][x] = TileGround
		}
	}

	var errs []error
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		p, t, err := parseDirective(line)
		if err == nil && !g.InBounds(p.X, p.Y) {
			err = fmt.Errorf("cell %d,%d outside %dx%d grid", p.X, p.Y, width, height)
		}
		if err != nil {
			log.Warn().Int("line", lineNo).Str("text", line).Err(err).Msg("skipping level directive")
			errs = append(errs, fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}
		g.Tiles[p.Y][p.X] = t
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}

	return g, errors.Join(errs...)
}

// LoadLevelFile opens path and parses it with LoadLevel.
func LoadLevelFile(path string, width, height int) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open level file: %w", err)
	}
	defer f.Close()
	return LoadLevel(f, width, height)
}

func parseDirective(line string) (Point, Tile, error) {
	coords, tag, ok := strings.Cut(line, "=")
	if !ok {
		return Point{}, TileGround, fmt.Errorf("missing '='")
	}
	xs, ys, ok := strings.Cut(coords, ",")
	if !ok {
		return Point{}, TileGround, fmt.Errorf("missing ','")
	}

	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Point{}, TileGround, fmt.Errorf("bad x: %w", err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Point{}, TileGround, fmt.Errorf("bad y: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(tag))
	if err != nil {
		return Point{}, TileGround, fmt.Errorf("bad tag: %w", err)
	}
	t, err := ParseTile(n)
	if err != nil {
		return Point{}, TileGround, err
	}
	return Point{x, y}, t, nil
}
