package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
)

// Encode writes b in save-file format.
//
// Postcondition: Decode of the output yields b, apart from Line fields.
func Encode(w io.Writer, b Battle) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{TagTurn, strconv.Itoa(b.Turn)}}
	for _, h := range b.Heroes {
		row := append(baseRow(TagHero, h.Name, h.Vitals), h.Class.Tag())
		rows = append(rows, append(row, maximaFields(h.Vitals)...))
	}
	for _, e := range b.Enemies {
		row := append(baseRow(TagEnemy, e.Name, e.Vitals), string(e.Type))
		row = append(row, maximaFields(e.Vitals)...)
		if e.Boss != "" {
			row = append(row,
				KeyBoss+"="+e.Boss,
				KeyCooldown+"="+strconv.Itoa(e.Cooldown),
				KeySpecial+"="+strconv.Itoa(e.SpecialIn),
			)
		}
		rows = append(rows, row)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

func baseRow(tag, name string, v Vitals) []string {
	return []string{
		tag, name,
		strconv.Itoa(v.HP), strconv.Itoa(v.MP),
		strconv.Itoa(v.Attack), strconv.Itoa(v.Defense), strconv.Itoa(v.Speed),
	}
}

func maximaFields(v Vitals) []string {
	var out []string
	if v.MaxHP > 0 {
		out = append(out, KeyMaxHP+"="+strconv.Itoa(v.MaxHP))
	}
	if v.MaxMP > 0 {
		out = append(out, KeyMaxMP+"="+strconv.Itoa(v.MaxMP))
	}
	return out
}

// Decode parses a whole save file. Nothing is returned unless every line parses.
//
// Postcondition: on failure the error is a *ParseError.
func Decode(r io.Reader) (Battle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var b Battle
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			line := 0
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return Battle{}, &ParseError{Line: line, Msg: "malformed line", Err: err}
		}
		line, _ := cr.FieldPos(0)
		switch strings.TrimSpace(fields[0]) {
		case TagTurn:
			if len(fields) < 2 {
				return Battle{}, &ParseError{Line: line, Msg: "TURNO needs a value"}
			}
			n, err := strconv.Atoi(strings.TrimSpace(fields[1]))
			if err != nil || n < 0 {
				return Battle{}, &ParseError{Line: line, Msg: fmt.Sprintf("bad turn %q", fields[1]), Err: err}
			}
			b.Turn = n
		case TagHero:
			h, err := decodeHero(line, fields)
			if err != nil {
				return Battle{}, err
			}
			b.Heroes = append(b.Heroes, h)
		case TagEnemy:
			e, err := decodeEnemy(line, fields)
			if err != nil {
				return Battle{}, err
			}
			b.Enemies = append(b.Enemies, e)
		}
	}
	return b, nil
}

func decodeVitals(line int, fields []string) (string, Vitals, error) {
	if len(fields) < baseFields {
		return "", Vitals{}, &ParseError{Line: line, Msg: fmt.Sprintf("%s needs %d fields, got %d", fields[0], baseFields, len(fields))}
	}
	name := strings.TrimSpace(fields[1])
	if name == "" {
		return "", Vitals{}, &ParseError{Line: line, Msg: "empty name"}
	}
	labels := []string{"hp", "mp", "attack", "defense", "speed"}
	var nums [5]int
	for i, label := range labels {
		n, err := strconv.Atoi(strings.TrimSpace(fields[2+i]))
		if err != nil {
			return "", Vitals{}, &ParseError{Line: line, Msg: fmt.Sprintf("%s %q is not an integer", label, fields[2+i]), Err: err}
		}
		if n < 0 {
			return "", Vitals{}, &ParseError{Line: line, Msg: fmt.Sprintf("%s must not be negative, got %d", label, n)}
		}
		nums[i] = n
	}
	return name, Vitals{HP: nums[0], MP: nums[1], Attack: nums[2], Defense: nums[3], Speed: nums[4]}, nil
}

// extensions parses trailing key=value fields; unknown keys are kept but unused.
func extensions(line int, fields []string) (map[string]string, error) {
	ext := map[string]string{}
	for _, f := range fields[baseFields:] {
		k, v, ok := strings.Cut(strings.TrimSpace(f), "=")
		if !ok {
			return nil, &ParseError{Line: line, Msg: fmt.Sprintf("extension %q is not key=value", f)}
		}
		ext[strings.ToLower(k)] = v
	}
	return ext, nil
}

func extInt(line int, ext map[string]string, key string) (int, error) {
	raw, ok := ext[key]
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &ParseError{Line: line, Msg: fmt.Sprintf("%s %q must be a non-negative integer", key, raw), Err: err}
	}
	return n, nil
}

func applyMaxima(line int, ext map[string]string, v *Vitals) error {
	var err error
	if v.MaxHP, err = extInt(line, ext, KeyMaxHP); err != nil {
		return err
	}
	if v.MaxMP, err = extInt(line, ext, KeyMaxMP); err != nil {
		return err
	}
	if v.MaxHP > 0 && v.HP > v.MaxHP {
		return &ParseError{Line: line, Msg: fmt.Sprintf("hp %d exceeds hpmax %d", v.HP, v.MaxHP)}
	}
	if v.MaxMP > 0 && v.MP > v.MaxMP {
		return &ParseError{Line: line, Msg: fmt.Sprintf("mp %d exceeds mpmax %d", v.MP, v.MaxMP)}
	}
	return nil
}

func decodeHero(line int, fields []string) (Hero, error) {
	name, v, err := decodeVitals(line, fields)
	if err != nil {
		return Hero{}, err
	}
	class, ok := combat.ParseClass(fields[7])
	if !ok {
		return Hero{}, &ParseError{Line: line, Msg: fmt.Sprintf("unknown hero class %q", fields[7])}
	}
	ext, err := extensions(line, fields)
	if err != nil {
		return Hero{}, err
	}
	if err := applyMaxima(line, ext, &v); err != nil {
		return Hero{}, err
	}
	return Hero{Line: line, Name: name, Class: class, Vitals: v}, nil
}

func decodeEnemy(line int, fields []string) (Enemy, error) {
	name, v, err := decodeVitals(line, fields)
	if err != nil {
		return Enemy{}, err
	}
	et, ok := combat.ParseEnemyType(fields[7])
	if !ok {
		return Enemy{}, &ParseError{Line: line, Msg: fmt.Sprintf("unknown enemy type %q", fields[7])}
	}
	ext, err := extensions(line, fields)
	if err != nil {
		return Enemy{}, err
	}
	if err := applyMaxima(line, ext, &v); err != nil {
		return Enemy{}, err
	}
	e := Enemy{Line: line, Name: name, Type: et, Vitals: v, Boss: ext[KeyBoss]}
	if e.Cooldown, err = extInt(line, ext, KeyCooldown); err != nil {
		return Enemy{}, err
	}
	if e.SpecialIn, err = extInt(line, ext, KeySpecial); err != nil {
		return Enemy{}, err
	}
	return e, nil
}

// Save writes b to path atomically: a temp file in the same directory is
// written, synced and renamed over path.
//
// Postcondition: on error path is unchanged.
func Save(path string, b Battle) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("saving %q: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if err = Encode(tmp, b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("saving %q: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("saving %q: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("saving %q: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("saving %q: %w", path, err)
	}
	return nil
}

// Load reads and decodes the save file at path.
//
// Postcondition: parse failures are *ParseError values carrying path.
func Load(path string) (Battle, error) {
	f, err := os.Open(path)
	if err != nil {
		return Battle{}, fmt.Errorf("loading %q: %w", path, err)
	}
	defer f.Close()
	b, err := Decode(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return Battle{}, err
	}
	return b, nil
}

// FileStore is the file-backed save/load collaborator of a battle session.
type FileStore struct{}

// Save implements the session persistence contract.
func (FileStore) Save(path string, b Battle) error { return Save(path, b) }

// Load implements the session persistence contract.
func (FileStore) Load(path string) (Battle, error) { return Load(path) }
