/*
Package reshape reorganizes raw actigraphy exports into a subject/session
directory layout.

	 base/
	   ne-dump/                      base/
	     export_sub01_sess01.csv  →    act-int-test/
	     data.zip (optional)             sub-01/
	     notes.txt (ignored)               sess-01/
	                                         export_sub01_sess01.csv

🎯 Purpose:
- Resolves the ne-dump source subtree beneath a base directory
- Optionally detects and extracts exactly one archive found there
- Maps candidate files to deterministic destinations under act-int-test
- Copies with a strict skip-if-present policy; re-runs are idempotent

🔄 Flow:
1. Resolve source and target subtrees (missing source is fatal)
2. Archive policy: abort on any pre-existing directory, abort on multiple
   archives, preview (dry-run) or extract in place (apply) a single one
3. Enumerate candidates recursively in sorted order
4. Map each candidate by its naming convention; unknown files are ignored
5. Copy pairs whose destination is absent; existing destinations are skipped
6. Report every pair with its outcome

📝 Design Philosophy:
Every decision is a pure function of the tree as it is on disk. Dry-run mode
performs the same walk and mapping but never writes, so its report is exactly
what apply mode would do. The conservative guards (skip-if-present, abort on
pre-existing directories) exist to protect partially migrated data; do not
relax them.
*/
package reshape
