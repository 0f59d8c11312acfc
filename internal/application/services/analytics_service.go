package services

import (
	"context"
	sqldb "database/sql"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"github.com/atlaserp/backend/pkg/constants"
	"github.com/atlaserp/backend/pkg/errors"
)

// AnalyticsService runs admin-supplied SQL against the suite schema.
// Queries are parsed and validated before execution: a single SELECT
// statement touching only suite tables.
type AnalyticsService struct {
	db     *sqldb.DB
	parser *parser.Parser
}

func NewAnalyticsService(db *sqldb.DB) *AnalyticsService {
	return &AnalyticsService{
		db:     db,
		parser: parser.New(),
	}
}

// QueryResult carries column names and row values for the client.
type QueryResult struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// Validate parses the SQL and enforces the read-only policy.
func (s *AnalyticsService) Validate(sql string) error {
	stmtNodes, _, err := s.parser.Parse(sql, "", "")
	if err != nil {
		return errors.NewValidationError("query", "SQL parse error: "+err.Error())
	}
	if len(stmtNodes) != 1 {
		return errors.NewValidationError("query", "Only single SQL statements are allowed")
	}

	stmt, ok := stmtNodes[0].(*ast.SelectStmt)
	if !ok {
		return errors.NewValidationError("query", "Only SELECT statements are allowed")
	}

	visitor := &tableVisitor{}
	stmt.Accept(visitor)
	if visitor.err != nil {
		return visitor.err
	}
	return nil
}

// Query validates and then executes the SQL read-only.
func (s *AnalyticsService) Query(ctx context.Context, sql string) (*QueryResult, error) {
	if err := s.Validate(sql); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, sql)
	if err != nil {
		return nil, errors.NewPersistenceError("analytics query", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.NewPersistenceError("analytics query", err)
	}

	result := &QueryResult{Columns: columns, Rows: [][]interface{}{}}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		scanTargets := make([]interface{}, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, errors.NewPersistenceError("analytics query", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewPersistenceError("analytics query", err)
	}
	return result, nil
}

// tableVisitor rejects references to tables outside the suite schema.
type tableVisitor struct {
	err error
}

func (v *tableVisitor) Enter(in ast.Node) (ast.Node, bool) {
	if v.err != nil {
		return in, true
	}
	if t, ok := in.(*ast.TableName); ok {
		name := strings.ToLower(t.Name.O)
		if name != "" && !constants.IsSuiteTable(name) {
			v.err = errors.NewValidationError("query", "Access denied: table '"+name+"' is outside the suite schema")
			return in, true
		}
	}
	return in, false
}

func (v *tableVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}
