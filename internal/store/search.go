package store

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/matheus3301/chatkit/internal/chat"
)

// SearchResult holds a message with a search snippet.
type SearchResult struct {
	Message chat.Message
	Snippet string
}

const snippetContext = 24

// SearchMessages finds messages whose text contains query (ASCII
// case-insensitive), newest first. An empty convID searches every
// conversation.
func (db *DB) SearchMessages(ctx context.Context, query, convID string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	q := `
		SELECT id, conv_id, sender_id, sender_name, type, text, at, outgoing
		FROM messages
		WHERE text LIKE '%' || ? || '%' ESCAPE '\'`
	args := []any{escapeLike(query)}
	if convID != "" {
		q += " AND conv_id = ?"
		args = append(args, convID)
	}
	q += " ORDER BY at DESC, seq DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := scanMessage(rows, &r.Message); err != nil {
			return nil, err
		}
		r.Snippet = snippet(r.Message.Text, query)
		results = append(results, r)
	}
	return results, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// snippet cuts text around the first match of query and marks it with << >>.
func snippet(text, query string) string {
	lt, lq := strings.ToLower(text), strings.ToLower(query)
	var i int
	if len(lt) == len(text) && len(lq) == len(query) {
		i = strings.Index(lt, lq)
	} else {
		i = strings.Index(text, query)
	}
	if i < 0 {
		return text
	}
	end := i + len(query)

	start := i
	for n := 0; start > 0 && n < snippetContext; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	stop := end
	for n := 0; stop < len(text) && n < snippetContext; n++ {
		_, size := utf8.DecodeRuneInString(text[stop:])
		stop += size
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString("...")
	}
	b.WriteString(text[start:i])
	b.WriteString("<<")
	b.WriteString(text[i:end])
	b.WriteString(">>")
	b.WriteString(text[end:stop])
	if stop < len(text) {
		b.WriteString("...")
	}
	return b.String()
}
