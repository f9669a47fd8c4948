// Package pipeline composes read queries as an ordered list of stages
// (match, sort, skip, limit, lookup, project, replaceRoot) and compiles them onto gorm.
//
// A Pipeline is an immutable value: every stage method returns a new Pipeline and
// leaves the receiver untouched, so a base pipeline can be shared and extended.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StageKind 阶段类型
type StageKind string

const (
	StageMatch       StageKind = "match"
	StageSort        StageKind = "sort"
	StageSkip        StageKind = "skip"
	StageLimit       StageKind = "limit"
	StageLookup      StageKind = "lookup"
	StageProject     StageKind = "project"
	StageReplaceRoot StageKind = "replaceRoot"
)

// Direction 排序方向
type Direction int

const (
	Asc Direction = iota
	Desc
)

// ParseDirection "desc"（不区分大小写）为降序，其余一律升序
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), "desc") {
		return Desc
	}
	return Asc
}

func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// Join 关联另一张表并展开为单条记录；没有对应记录的行被丢弃（inner join）。
// 关联出的字段以 <As>_<field> 命名。
type Join struct {
	Table        string
	As           string
	LocalField   string
	ForeignField string
	Fields       []string
}

type stage struct {
	kind   StageKind
	query  any
	args   []any
	field  string
	dir    Direction
	n      int
	join   Join
	fields []string
	alias  string
}

// Pipeline 声明式查询
type Pipeline struct {
	model  any
	stages []stage
}

// New 以 model 对应的表为根
func New(model any) Pipeline { return Pipeline{model: model} }

func (p Pipeline) with(s stage) Pipeline {
	stages := make([]stage, len(p.stages), len(p.stages)+1)
	copy(stages, p.stages)
	return Pipeline{model: p.model, stages: append(stages, s)}
}

// Match 追加过滤条件，多个 Match 之间为 AND
func (p Pipeline) Match(query any, args ...any) Pipeline {
	return p.with(stage{kind: StageMatch, query: query, args: args})
}

// Sort 按根表字段排序；字段可以是 Go 字段名、列名或 camelCase，未知字段不生效
func (p Pipeline) Sort(field string, dir Direction) Pipeline {
	return p.with(stage{kind: StageSort, field: field, dir: dir})
}

func (p Pipeline) Skip(n int) Pipeline { return p.with(stage{kind: StageSkip, n: n}) }

func (p Pipeline) Limit(n int) Pipeline { return p.with(stage{kind: StageLimit, n: n}) }

// Page 追加 skip=(page-1)*limit 与 limit；page<1 视为 1，limit<1 视为 10。
// 偏移量溢出时结果为空页
func (p Pipeline) Page(page, limit int) Pipeline {
	page, limit = NormalizePage(page, limit)
	if page-1 > math.MaxInt/limit {
		return p.Match("1 = 0").Limit(limit)
	}
	return p.Skip((page - 1) * limit).Limit(limit)
}

func (p Pipeline) Lookup(j Join) Pipeline { return p.with(stage{kind: StageLookup, join: j}) }

// Project 只保留根表的指定字段
func (p Pipeline) Project(fields ...string) Pipeline {
	return p.with(stage{kind: StageProject, fields: append([]string(nil), fields...)})
}

// ReplaceRoot 以关联别名对应的记录替换根记录
func (p Pipeline) ReplaceRoot(alias string) Pipeline {
	return p.with(stage{kind: StageReplaceRoot, alias: alias})
}

// Stages 按顺序返回阶段类型
func (p Pipeline) Stages() []StageKind {
	kinds := make([]StageKind, len(p.stages))
	for i, s := range p.stages {
		kinds[i] = s.kind
	}
	return kinds
}

// NormalizePage 分页参数归一化，不设上限
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

// Build 编译为 gorm 查询。
// 过滤合并为 WHERE，排序按出现顺序拼接，skip/limit 以最后一次为准；
// 出现 skip 或 limit 时追加根表 id 升序，保证分页之间不重不漏。
func (p Pipeline) Build(db *gorm.DB) *gorm.DB {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(p.model); err != nil {
		tx := db.Session(&gorm.Session{})
		_ = tx.AddError(fmt.Errorf("pipeline: parse model: %w", err))
		return tx
	}
	root := stmt.Table
	sch := stmt.Schema

	tx := db.Table(root)
	var (
		orders    []string
		joins     []string
		lookups   []string
		project   []string
		newRoot   string
		offset    = -1
		limit     = -1
		sortsByID bool
	)
	for _, s := range p.stages {
		switch s.kind {
		case StageMatch:
			tx = tx.Where(s.query, s.args...)
		case StageSort:
			col := resolveColumn(sch, s.field)
			if col == "" {
				continue
			}
			if col == "id" {
				sortsByID = true
			}
			orders = append(orders, root+"."+col+" "+s.dir.String())
		case StageSkip:
			offset = s.n
		case StageLimit:
			limit = s.n
		case StageLookup:
			j := s.join
			joins = append(joins, fmt.Sprintf("INNER JOIN %s AS %s ON %s.%s = %s.%s",
				j.Table, j.As, j.As, j.ForeignField, root, j.LocalField))
			for _, f := range j.Fields {
				lookups = append(lookups, fmt.Sprintf("%s.%s AS %s_%s", j.As, f, j.As, f))
			}
		case StageProject:
			project = project[:0]
			for _, f := range s.fields {
				if col := resolveColumn(sch, f); col != "" {
					project = append(project, root+"."+col)
				}
			}
		case StageReplaceRoot:
			newRoot = s.alias
		}
	}

	for _, j := range joins {
		tx = tx.Joins(j)
	}

	var cols []string
	switch {
	case newRoot != "":
		cols = []string{newRoot + ".*"}
	case len(project) > 0:
		cols = append(project, lookups...)
	default:
		cols = append([]string{root + ".*"}, lookups...)
	}
	tx = tx.Select(strings.Join(cols, ", "))

	if offset >= 0 || limit >= 0 {
		if !sortsByID {
			orders = append(orders, root+".id ASC")
		}
	}
	for _, o := range orders {
		tx = tx.Order(o)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	if limit >= 0 {
		tx = tx.Limit(limit)
	}
	return tx
}

// Scan 执行并写入 dest（结构体切片或结构体）
func (p Pipeline) Scan(ctx context.Context, db *gorm.DB, dest any) error {
	return p.Build(db.WithContext(ctx)).Scan(dest).Error
}

var columnNamer = schema.NamingStrategy{}

func resolveColumn(sch *schema.Schema, name string) string {
	name = strings.TrimSpace(name)
	if name == "" || sch == nil {
		return ""
	}
	if f := sch.LookUpField(name); f != nil && f.DBName != "" {
		return f.DBName
	}
	if f := sch.LookUpField(columnNamer.ColumnName("", name)); f != nil && f.DBName != "" {
		return f.DBName
	}
	return ""
}
