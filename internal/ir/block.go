package ir

import "github.com/runec/rnc/internal/types"

// Block is owned by a Function or by an owning Statement; it holds an
// ordered, doubly-linked sequence of Statements (spec.md §3.2, §4.2).
// Carries source location and three dead-code-analysis flags.
type Block struct {
	Location Location

	first, last *Statement
	count       int

	CanReturn          bool
	CanContinue        bool
	InferredReturnType types.Type

	// Exactly one of these is non-nil once the block is attached.
	OwnerFunction *Function
	OwnerStatement *Statement
}

// NewBlock constructs an empty, detached block (spec.md §4.2
// "new-block(location)").
func NewBlock(loc Location) *Block {
	return &Block{Location: loc, CanContinue: true}
}

// Len returns the number of statements currently in the block.
func (b *Block) Len() int { return b.count }

// First returns the first statement, or nil if the block is empty.
func (b *Block) First() *Statement { return b.first }

// Last returns the last statement, or nil if the block is empty.
func (b *Block) Last() *Statement { return b.last }

// AppendStatement adds stmt to the end of b (spec.md §4.2
// "append-statement").
func (b *Block) AppendStatement(stmt *Statement) {
	stmt.Block = b
	stmt.prevStmt = b.last
	stmt.nextStmt = nil
	if b.last != nil {
		b.last.nextStmt = stmt
	} else {
		b.first = stmt
	}
	b.last = stmt
	b.count++
}

// InsertStatementAfter inserts stmt immediately after after. If after is
// nil, stmt becomes the first statement of b (spec.md §4.2
// "insert-statement").
func (b *Block) InsertStatementAfter(after, stmt *Statement) {
	stmt.Block = b
	if after == nil {
		stmt.prevStmt = nil
		stmt.nextStmt = b.first
		if b.first != nil {
			b.first.prevStmt = stmt
		} else {
			b.last = stmt
		}
		b.first = stmt
		b.count++
		return
	}
	stmt.prevStmt = after
	stmt.nextStmt = after.nextStmt
	if after.nextStmt != nil {
		after.nextStmt.prevStmt = stmt
	} else {
		b.last = stmt
	}
	after.nextStmt = stmt
	b.count++
}

// RemoveStatement detaches stmt from b (spec.md §4.2 "remove-statement").
// It does not destroy stmt's owned sub-structure; callers that are
// discarding the statement for good are responsible for that.
func (b *Block) RemoveStatement(stmt *Statement) {
	if stmt.prevStmt != nil {
		stmt.prevStmt.nextStmt = stmt.nextStmt
	} else {
		b.first = stmt.nextStmt
	}
	if stmt.nextStmt != nil {
		stmt.nextStmt.prevStmt = stmt.prevStmt
	} else {
		b.last = stmt.prevStmt
	}
	stmt.nextStmt = nil
	stmt.prevStmt = nil
	stmt.Block = nil
	b.count--
}

// Statements returns a safe iteration snapshot: the statement pointers in
// order, captured before the caller runs any code that might mutate the
// list (spec.md §4.2 "safe iteration: snapshot next pointer before
// yielding"). Iterating this slice is immune to the callback removing or
// relinking the very statement it is visiting.
func (b *Block) Statements() []*Statement {
	out := make([]*Statement, 0, b.count)
	for s := b.first; s != nil; s = s.nextStmt {
		out = append(out, s)
	}
	return out
}

// CopyBlock deep-copies all of src's owned sub-structure — statements, in
// order, with their owned expressions and sub-blocks recursively copied —
// but does not copy sibling functions or sub-blocks reached only through
// non-owning back references (spec.md §4.2 "copy-block").
func CopyBlock(src *Block) *Block {
	dst := NewBlock(src.Location)
	dst.CanReturn = src.CanReturn
	dst.CanContinue = src.CanContinue
	dst.InferredReturnType = src.InferredReturnType
	for _, s := range src.Statements() {
		dst.AppendStatement(copyStatement(s))
	}
	return dst
}

func copyStatement(src *Statement) *Statement {
	dst := NewStatement(src.Kind, src.Location)
	if src.Expr != nil {
		dst.SetExpr(copyExpression(src.Expr))
	}
	if src.Sub != nil {
		dst.SetSubBlock(CopyBlock(src.Sub))
	}
	return dst
}

func copyExpression(src *Expression) *Expression {
	dst := &Expression{
		Tag:             src.Tag,
		Location:        src.Location,
		Type:            src.Type,
		Width:           src.Width,
		Symbol:          src.Symbol,
		BindingInstance: src.BindingInstance,
		FieldName:       src.FieldName,
		ParamName:       src.ParamName,
	}
	if src.Value != nil {
		v := *src.Value
		dst.Value = &v
	}
	for _, c := range src.Children {
		AppendChild(dst, copyExpression(c))
	}
	return dst
}

// MoveStatementsAfter detaches every statement from src, in order, and
// inserts them into dest immediately after destStmt (spec.md §4.2
// "move-statements-after"). src is left empty.
func MoveStatementsAfter(src *Block, dest *Block, destStmt *Statement) {
	stmts := src.Statements()
	for _, s := range stmts {
		src.RemoveStatement(s)
	}
	after := destStmt
	for _, s := range stmts {
		dest.InsertStatementAfter(after, s)
		after = s
	}
}
