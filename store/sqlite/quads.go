package sqlite

import (
	"fmt"
	"iter"
	"strings"

	"github.com/recalcitrantsupplant/rdflib/rdf"
	"github.com/recalcitrantsupplant/rdflib/store"
)

const insertQuadSQL = `INSERT INTO quads (s, p, o, g, quoted) VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (s, p, o, g) DO NOTHING`

const insertGraphSQL = `INSERT INTO graphs (name, formula) VALUES (?, ?)
	ON CONFLICT (name) DO UPDATE SET formula = MAX(formula, excluded.formula)`

// Add inserts t into graph.
func (s *Store) Add(t rdf.Triple, graph rdf.Term, quoted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, err := s.writer()
	if err != nil {
		return err
	}
	if err := s.insert(conn, t, store.NormalizeContext(graph), quoted); err != nil {
		return fmt.Errorf("sqlite: add: %w", err)
	}
	return nil
}

func (s *Store) insert(conn execQuerier, t rdf.Triple, graph rdf.Term, quoted bool) error {
	g := rdf.FormatTerm(graph)
	if _, err := conn.ExecContext(s.ctx, insertGraphSQL, g, quoted); err != nil {
		return err
	}
	_, err := conn.ExecContext(s.ctx, insertQuadSQL,
		rdf.FormatTerm(t.S), rdf.FormatTerm(t.P), rdf.FormatTerm(t.O), g, quoted)
	return err
}

// AddN inserts asserted quads in one transaction.
func (s *Store) AddN(quads []rdf.Quad) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, err := s.writer()
	if err != nil {
		return err
	}
	if s.tx == nil {
		tx, err := s.db.BeginTx(s.ctx, nil)
		if err != nil {
			return fmt.Errorf("sqlite: add batch: %w", err)
		}
		for _, q := range quads {
			if err := s.insert(tx, q.ToTriple(), store.NormalizeContext(q.G), false); err != nil {
				tx.Rollback()
				return fmt.Errorf("sqlite: add batch: %w", err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("sqlite: add batch: %w", err)
		}
		return nil
	}
	for _, q := range quads {
		if err := s.insert(conn, q.ToTriple(), store.NormalizeContext(q.G), false); err != nil {
			return fmt.Errorf("sqlite: add batch: %w", err)
		}
	}
	return nil
}

// where builds the filter for a pattern and context. ok is false when the
// pattern cannot match anything.
func where(p rdf.Pattern, graph rdf.Term) (clause string, args []any, ok bool) {
	var conds []string
	if p.S != nil {
		conds = append(conds, "s = ?")
		args = append(args, rdf.FormatTerm(p.S))
	}
	if p.P != nil {
		if _, isIRI := p.P.(rdf.IRI); !isIRI {
			return "", nil, false
		}
		conds = append(conds, "p = ?")
		args = append(args, rdf.FormatTerm(p.P))
	}
	if p.O != nil {
		conds = append(conds, "o = ?")
		args = append(args, rdf.FormatTerm(p.O))
	}
	if graph == nil {
		conds = append(conds, "quoted = 0")
	} else {
		conds = append(conds, "g = ?")
		args = append(args, rdf.FormatTerm(graph))
	}
	return " WHERE " + strings.Join(conds, " AND "), args, true
}

// Remove deletes matching triples from graph, or from every asserted
// context when graph is nil.
func (s *Store) Remove(p rdf.Pattern, graph rdf.Term) error {
	clause, args, ok := where(p, graph)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, err := s.writer()
	if err != nil {
		return err
	}
	if _, err := conn.ExecContext(s.ctx, "DELETE FROM quads"+clause, args...); err != nil {
		return fmt.Errorf("sqlite: remove: %w", err)
	}
	return nil
}

// Triples scans graph, or the asserted union when graph is nil. Rows are
// read completely before the first triple is yielded.
func (s *Store) Triples(p rdf.Pattern, graph rdf.Term) iter.Seq2[store.Match, error] {
	return func(yield func(store.Match, error) bool) {
		matches, err := s.scan(p, graph)
		if err != nil {
			yield(store.Match{}, err)
			return
		}
		for _, m := range matches {
			if !yield(m, nil) {
				return
			}
		}
	}
}

func (s *Store) scan(p rdf.Pattern, graph rdf.Term) ([]store.Match, error) {
	clause, args, ok := where(p, graph)
	if !ok {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, err := s.reader()
	if err != nil {
		return nil, err
	}
	rows, err := conn.QueryContext(s.ctx, "SELECT s, p, o, g FROM quads"+clause+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: scan: %w", err)
	}
	defer rows.Close()

	var out []store.Match
	seen := map[rdf.Triple]int{}
	for rows.Next() {
		var sText, pText, oText, gText string
		if err := rows.Scan(&sText, &pText, &oText, &gText); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		t, err := decodeTriple(sText, pText, oText)
		if err != nil {
			return nil, err
		}
		g, err := rdf.ParseTerm(gText)
		if err != nil {
			return nil, fmt.Errorf("sqlite: decode graph: %w", err)
		}
		if i, dup := seen[t]; dup {
			out[i].Contexts = append(out[i].Contexts, g)
			continue
		}
		seen[t] = len(out)
		out = append(out, store.Match{Triple: t, Contexts: []rdf.Term{g}})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: scan: %w", err)
	}
	return out, nil
}

func decodeTriple(sText, pText, oText string) (rdf.Triple, error) {
	subject, err := rdf.ParseTerm(sText)
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("sqlite: decode subject: %w", err)
	}
	predicate, err := rdf.ParseTerm(pText)
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("sqlite: decode predicate: %w", err)
	}
	iri, ok := predicate.(rdf.IRI)
	if !ok {
		return rdf.Triple{}, fmt.Errorf("sqlite: decode predicate: %s is not an IRI", pText)
	}
	object, err := rdf.ParseTerm(oText)
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("sqlite: decode object: %w", err)
	}
	return rdf.Triple{S: subject, P: iri, O: object}, nil
}

// TriplesChoices scans one pattern per choice.
func (s *Store) TriplesChoices(c rdf.Choices, graph rdf.Term) iter.Seq2[store.Match, error] {
	return store.ExpandChoices(s, c, graph)
}

// Len counts triples in graph, or distinct asserted triples when graph is nil.
func (s *Store) Len(graph rdf.Term) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, err := s.reader()
	if err != nil {
		return 0, err
	}
	var n int
	if graph == nil {
		err = conn.QueryRowContext(s.ctx,
			"SELECT COUNT(*) FROM (SELECT DISTINCT s, p, o FROM quads WHERE quoted = 0)").Scan(&n)
	} else {
		err = conn.QueryRowContext(s.ctx, "SELECT COUNT(*) FROM quads WHERE g = ?", rdf.FormatTerm(graph)).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("sqlite: len: %w", err)
	}
	return n, nil
}

// Contexts lists the asserted contexts of t, or every asserted context.
func (s *Store) Contexts(t *rdf.Triple) iter.Seq2[rdf.Term, error] {
	return func(yield func(rdf.Term, error) bool) {
		ctxs, err := s.contexts(t)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, ctx := range ctxs {
			if !yield(ctx, nil) {
				return
			}
		}
	}
}

func (s *Store) contexts(t *rdf.Triple) ([]rdf.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, err := s.reader()
	if err != nil {
		return nil, err
	}
	query := "SELECT name FROM graphs WHERE formula = 0 ORDER BY id"
	var args []any
	if t != nil {
		query = "SELECT g FROM quads WHERE s = ? AND p = ? AND o = ? AND quoted = 0 ORDER BY id"
		args = []any{rdf.FormatTerm(t.S), rdf.FormatTerm(t.P), rdf.FormatTerm(t.O)}
	}
	rows, err := conn.QueryContext(s.ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: contexts: %w", err)
	}
	defer rows.Close()
	var out []rdf.Term
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("sqlite: contexts: %w", err)
		}
		ctx, err := rdf.ParseTerm(text)
		if err != nil {
			return nil, fmt.Errorf("sqlite: decode graph: %w", err)
		}
		out = append(out, ctx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: contexts: %w", err)
	}
	return out, nil
}

// IsFormula reports whether graph holds quoted triples.
func (s *Store) IsFormula(graph rdf.Term) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, err := s.reader()
	if err != nil {
		return false, err
	}
	var n int
	err = conn.QueryRowContext(s.ctx, "SELECT COUNT(*) FROM graphs WHERE name = ? AND formula = 1", rdf.FormatTerm(graph)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: is formula: %w", err)
	}
	return n > 0, nil
}

// AddGraph registers an empty graph.
func (s *Store) AddGraph(graph rdf.Term) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, err := s.writer()
	if err != nil {
		return err
	}
	_, err = conn.ExecContext(s.ctx, `INSERT INTO graphs (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, rdf.FormatTerm(graph))
	if err != nil {
		return fmt.Errorf("sqlite: add graph: %w", err)
	}
	return nil
}

// RemoveGraph deletes graph and its triples.
func (s *Store) RemoveGraph(graph rdf.Term) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, err := s.writer()
	if err != nil {
		return err
	}
	name := rdf.FormatTerm(graph)
	if _, err := conn.ExecContext(s.ctx, "DELETE FROM quads WHERE g = ?", name); err != nil {
		return fmt.Errorf("sqlite: remove graph: %w", err)
	}
	if _, err := conn.ExecContext(s.ctx, "DELETE FROM graphs WHERE name = ?", name); err != nil {
		return fmt.Errorf("sqlite: remove graph: %w", err)
	}
	return nil
}
