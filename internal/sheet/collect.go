package sheet

// Collect reduces the current table state to a save payload.
//
// Rows are visited in table order. New and updated rows are read in full,
// including every menu row that is not delete-checked. Deleted rows report
// their original name, or the current name when the row was never saved;
// a row with neither is dropped. Clean rows are skipped.
func Collect(rows []*Row) Payload {
	payload := NewPayload()

	for _, row := range rows {
		switch row.Status {
		case StatusNew:
			payload.New = append(payload.New, ReadRow(row))
		case StatusUpdated:
			payload.Update = append(payload.Update, ReadRow(row))
		case StatusDeleted:
			if name := deleteIdentity(row); name != "" {
				payload.Delete = append(payload.Delete, name)
			}
		}
	}

	return payload
}

func deleteIdentity(row *Row) string {
	if row.OriginalName != "" {
		return row.OriginalName
	}
	return ReadText(row.Cells.Name)
}

// Collect snapshots the table under its lock and builds the payload.
func (t *Table) Collect() Payload {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Collect(t.rows)
}
