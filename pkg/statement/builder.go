package statement

import (
	"fmt"
	"strings"

	"github.com/framesql/framesql"
	"github.com/framesql/framesql/pkg/dialect"
)

// validateIdentifiers checks the table name and every column name and
// guarantees at least one column.
func validateIdentifiers(table string, cols []string) error {
	if err := dialect.ValidateTableName(table); err != nil {
		return err
	}
	if len(cols) == 0 {
		return framesql.NewError(framesql.ErrInvalidInput,
			"no columns to build a statement for table %s", table)
	}
	for _, c := range cols {
		if err := dialect.ValidateColumnName(c); err != nil {
			return err
		}
	}
	return nil
}

// BuildInsert returns a single-line parametrized INSERT statement with one
// named marker per column:
//
//	INSERT INTO Item (Name) VALUES (:Name)
func BuildInsert(table string, cols []string) (string, error) {
	if err := validateIdentifiers(table, cols); err != nil {
		return "", err
	}
	markers := make([]string, len(cols))
	for i, c := range cols {
		markers[i] = ":" + c
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(markers, ", ")), nil
}

// BuildUpdate returns a parametrized UPDATE statement that sets updateCols
// for the rows identified by matchCols:
//
//	UPDATE Customer
//	SET
//	    CustomerName = :CustomerName
//	WHERE
//	    CustomerId = :CustomerId
func BuildUpdate(table string, updateCols, matchCols []string) (string, error) {
	if err := validateIdentifiers(table, updateCols); err != nil {
		return "", err
	}
	if err := validateIdentifiers(table, matchCols); err != nil {
		return "", err
	}
	set := make([]string, len(updateCols))
	for i, c := range updateCols {
		set[i] = fmt.Sprintf("%s = :%s", c, c)
	}
	where := make([]string, len(matchCols))
	for i, c := range matchCols {
		where[i] = fmt.Sprintf("%s = :%s", c, c)
	}
	return fmt.Sprintf(`UPDATE %s
SET
    %s
WHERE
    %s`,
		table,
		strings.Join(set, ",\n    "),
		strings.Join(where, " AND\n    ")), nil
}

// BuildConditionalInsert returns a parametrized INSERT that only adds a row
// when no row matching matchCols already exists:
//
//	INSERT INTO Customer (
//	    CustomerId,
//	    CustomerName
//	)
//	    SELECT
//	        :CustomerId,
//	        :CustomerName
//	    WHERE
//	        NOT EXISTS (
//	            SELECT
//	                1
//	            FROM Customer
//	            WHERE
//	                CustomerId = :CustomerId
//	        )
func BuildConditionalInsert(table string, insertCols, matchCols []string) (string, error) {
	if err := validateIdentifiers(table, insertCols); err != nil {
		return "", err
	}
	if err := validateIdentifiers(table, matchCols); err != nil {
		return "", err
	}
	markers := make([]string, len(insertCols))
	for i, c := range insertCols {
		markers[i] = ":" + c
	}
	where := make([]string, len(matchCols))
	for i, c := range matchCols {
		where[i] = fmt.Sprintf("%s = :%s", c, c)
	}
	return fmt.Sprintf(`INSERT INTO %s (
    %s
)
    SELECT
        %s
    WHERE
        NOT EXISTS (
            SELECT
                1
            FROM %s
            WHERE
                %s
        )`,
		table,
		strings.Join(insertCols, ",\n    "),
		strings.Join(markers, ",\n        "),
		table,
		strings.Join(where, " AND\n                ")), nil
}

// MergeOptions tunes the statement produced by BuildMerge.
type MergeOptions struct {
	// TargetAlias and SourceAlias name the target table and the parameter
	// source in the generated statement. Empty values default to "target"
	// and "source".
	TargetAlias string
	SourceAlias string

	// AddUpdateCondition guards the WHEN MATCHED branch with a
	// change-detection condition so the update only fires when at least
	// one update column actually differs, using null-safe IS DISTINCT
	// FROM comparisons. By default matched rows are always rewritten.
	AddUpdateCondition bool
}

// BuildMerge returns a parametrized MERGE statement that updates matched
// rows and inserts unmatched ones in a single operation:
//
//	MERGE INTO Customer AS target
//	USING (
//	    SELECT
//	        :CustomerId AS CustomerId,
//	        :CustomerName AS CustomerName
//	) AS source
//	ON
//	    target.CustomerId = source.CustomerId
//	WHEN MATCHED THEN
//	    UPDATE SET
//	        CustomerName = source.CustomerName
//	WHEN NOT MATCHED THEN
//	    INSERT (
//	        CustomerId,
//	        CustomerName
//	    )
//	    VALUES (
//	        source.CustomerId,
//	        source.CustomerName
//	    )
//
// The WHEN MATCHED branch is dropped entirely when updateCols is empty.
func BuildMerge(table string, insertCols, matchCols, updateCols []string, opts MergeOptions) (string, error) {
	if err := validateIdentifiers(table, insertCols); err != nil {
		return "", err
	}
	if err := validateIdentifiers(table, matchCols); err != nil {
		return "", err
	}
	for _, c := range updateCols {
		if err := dialect.ValidateColumnName(c); err != nil {
			return "", err
		}
	}

	target := opts.TargetAlias
	if target == "" {
		target = "target"
	}
	source := opts.SourceAlias
	if source == "" {
		source = "source"
	}

	sel := make([]string, len(insertCols))
	for i, c := range insertCols {
		sel[i] = fmt.Sprintf(":%s AS %s", c, c)
	}
	on := make([]string, len(matchCols))
	for i, c := range matchCols {
		on[i] = fmt.Sprintf("%s.%s = %s.%s", target, c, source, c)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "MERGE INTO %s AS %s\n", table, target)
	fmt.Fprintf(&b, "USING (\n    SELECT\n        %s\n) AS %s\n",
		strings.Join(sel, ",\n        "), source)
	fmt.Fprintf(&b, "ON\n    %s\n", strings.Join(on, " AND\n    "))

	if len(updateCols) > 0 {
		if opts.AddUpdateCondition {
			cond := make([]string, len(updateCols))
			for i, c := range updateCols {
				cond[i] = fmt.Sprintf("%s.%s IS DISTINCT FROM %s.%s", target, c, source, c)
			}
			fmt.Fprintf(&b, "WHEN MATCHED AND (\n    %s\n) THEN\n",
				strings.Join(cond, " OR\n    "))
		} else {
			b.WriteString("WHEN MATCHED THEN\n")
		}
		set := make([]string, len(updateCols))
		for i, c := range updateCols {
			set[i] = fmt.Sprintf("%s = %s.%s", c, source, c)
		}
		fmt.Fprintf(&b, "    UPDATE SET\n        %s\n", strings.Join(set, ",\n        "))
	}

	values := make([]string, len(insertCols))
	for i, c := range insertCols {
		values[i] = fmt.Sprintf("%s.%s", source, c)
	}
	fmt.Fprintf(&b, "WHEN NOT MATCHED THEN\n    INSERT (\n        %s\n    )\n    VALUES (\n        %s\n    )",
		strings.Join(insertCols, ",\n        "), strings.Join(values, ",\n        "))

	return b.String(), nil
}
