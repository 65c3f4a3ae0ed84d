// Command migration applies the SQL schema in db/migrations to DB_URL.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newMigrateCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
