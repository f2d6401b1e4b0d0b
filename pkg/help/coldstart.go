package help

const ColdstartYAML = `# llmsb Quick Start

input:
  format: "Crawl CSV export (Screaming Frog internal_all.csv or compatible)"
  required_columns: [Address, "Status Code", Indexability, "Title 1", "Meta Description 1"]
  optional_columns: ["H1-1", "Word Count", "Crawl Depth"]

commands:
  basic_generate: |
    llmsb generate --csv crawl_export.csv

  preview: |
    llmsb generate --csv crawl_export.csv --preview

  enhanced: |
    OPENAI_API_KEY=sk-... llmsb generate --csv crawl_export.csv --enhance

  check_export_first: |
    llmsb validate --csv crawl_export.csv

  check_generated_file: |
    llmsb validate exports/llms.txt

  web_ui: |
    llmsb serve --addr 127.0.0.1:8080

  run_history: |
    llmsb runs list
    llmsb runs show 3

output_files:
  - "exports/llms.txt (Markdown index with category sections)"
  - "exports/llms.json (same document plus stats, machine-readable)"
  - "exports/index.yaml (history of runs, newest first)"

processing_order:
  - "Load CSV (UTF-8, falls back to Windows-1252)"
  - "Keep rows with status 200 and Indexability 'Indexable'"
  - "Drop images, assets, CMS junk, and blog archive pages"
  - "Optionally fetch missing titles/descriptions (--fill-missing)"
  - "Optionally drop foreign-language pages (--language-filter)"
  - "Deduplicate by URL, then resolve duplicate titles by score"
  - "Categorize (Services, Areas Treated, Blog, Providers, ...)"
  - "Optionally enhance via LLM in batches of 10 (--enhance)"
  - "Assemble sections in priority order and write files"

run_history:
  - "Runs tracked in SQLite next to the binary (llmsb.db)"
  - "Auto-incrementing run IDs (1, 2, 3...)"
  - "exports/index.yaml mirrors the history without the database"
  - "Use 'llmsb runs list' to list, 'llmsb runs show <id>' for details"

error_behavior:
  - "Missing file, bad columns, zero indexable rows: fail fast"
  - "Enhancement failures: batch reverts to originals, run continues"
  - "Save or database failures: reported as issues, run continues"
  - "Exit codes: 0=success, 1=issues found, 2=failure"
`
