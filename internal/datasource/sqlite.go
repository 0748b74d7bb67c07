package datasource

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/r-imagination/sciencemap/pkg/model"
)

// SQLiteReader provides read access to a curriculum.db database. The schema
// mirrors the JSON documents: a concepts table, an activities table, and two
// child tables (chapter_references, interconnections) holding the ordered
// list fields.
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a curriculum database for reading.
func NewSQLiteReader(path string) (*SQLiteReader, error) {
	// Read-only: the viewer never writes curriculum data.
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA cache_size = -16000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			// Non-fatal, reads still work without the pragma.
			continue
		}
	}

	return &SQLiteReader{db: db, path: path}, nil
}

// Close closes the database connection.
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Grades lists the grade labels present in the database.
func (r *SQLiteReader) Grades() ([]string, error) {
	rows, err := r.db.Query("SELECT DISTINCT grade FROM concepts ORDER BY grade")
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var grades []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			continue
		}
		grades = append(grades, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grades: %w", err)
	}
	return grades, nil
}

// LoadGrade reads one grade's concepts and activities from the database.
func (r *SQLiteReader) LoadGrade(label string) (*model.Grade, error) {
	concepts, err := r.loadConcepts(label)
	if err != nil {
		return nil, err
	}
	activities, err := r.loadActivities(label)
	if err != nil {
		return nil, err
	}

	g := &model.Grade{Label: label, Concepts: concepts, Activities: activities}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *SQLiteReader) loadConcepts(label string) ([]model.Concept, error) {
	query := `
		SELECT concept_name, domain, strand, brief_explanation,
		       concept_type, cognitive_level
		FROM concepts
		WHERE grade = ?
		ORDER BY rowid
	`
	rows, err := r.db.Query(query, label)
	if err != nil {
		// Older exports may lack the optional columns.
		return r.loadConceptsSimple(label)
	}
	defer rows.Close()

	var concepts []model.Concept
	for rows.Next() {
		var c model.Concept
		var explanation, conceptType, cognitiveLevel sql.NullString

		if err := rows.Scan(&c.Name, &c.Domain, &c.Strand,
			&explanation, &conceptType, &cognitiveLevel); err != nil {
			continue
		}
		if explanation.Valid {
			c.BriefExplanation = explanation.String
		}
		if conceptType.Valid {
			c.ConceptType = conceptType.String
		}
		if cognitiveLevel.Valid {
			c.CognitiveLevel = cognitiveLevel.String
		}

		c.ChapterReferences = r.loadStringList("chapter_references", "chapter", label, c.Name)
		c.Interconnections = r.loadStringList("interconnections", "linked_concept", label, c.Name)

		concepts = append(concepts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating concepts: %w", err)
	}
	return concepts, nil
}

// loadConceptsSimple is a fallback for databases with only the required columns.
func (r *SQLiteReader) loadConceptsSimple(label string) ([]model.Concept, error) {
	query := `
		SELECT concept_name, domain, strand
		FROM concepts
		WHERE grade = ?
		ORDER BY rowid
	`
	rows, err := r.db.Query(query, label)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var concepts []model.Concept
	for rows.Next() {
		var c model.Concept
		if err := rows.Scan(&c.Name, &c.Domain, &c.Strand); err != nil {
			continue
		}
		c.Interconnections = r.loadStringList("interconnections", "linked_concept", label, c.Name)
		concepts = append(concepts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating concepts: %w", err)
	}
	return concepts, nil
}

func (r *SQLiteReader) loadActivities(label string) ([]model.Activity, error) {
	query := `
		SELECT activity_name, learning_goal, parent_concept
		FROM activities
		WHERE grade = ?
		ORDER BY rowid
	`
	rows, err := r.db.Query(query, label)
	if err != nil {
		// An export without activities is still usable.
		return nil, nil
	}
	defer rows.Close()

	var activities []model.Activity
	for rows.Next() {
		var a model.Activity
		var goal, parent sql.NullString
		if err := rows.Scan(&a.Name, &goal, &parent); err != nil {
			continue
		}
		if goal.Valid {
			a.LearningGoal = goal.String
		}
		if parent.Valid {
			a.ParentConcept = parent.String
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}
	return activities, nil
}

// loadStringList reads one ordered child-table list for a concept.
// Best effort: returns nil on any error so a partial schema still loads.
func (r *SQLiteReader) loadStringList(table, column, label, concept string) []string {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE grade = ? AND concept_name = ? ORDER BY position, rowid",
		column, table)
	rows, err := r.db.Query(query, label, concept)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// CountConcepts returns the number of concepts stored for a grade.
func (r *SQLiteReader) CountConcepts(label string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM concepts WHERE grade = ?", label).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
