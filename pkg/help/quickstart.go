package help

const QuickStartYAML = `# noiseless Quick Start

commands:
  file_info: |
    noiseless info app.log

  filter_run: |
    noiseless filter app.log --filter errors.json

  overwrite_previous: |
    noiseless filter app.log --filter errors.json --overwrite

  run_history: |
    noiseless runs

  run_detail: |
    noiseless runs --id 3

  interactive: |
    noiseless shell

filter_files:
  location: "bare names resolve under data/filters/"
  format: |
    {"ERROR": {}, "WARN": {}}
  note: "top-level keys are the keywords to match; values are reserved"

output:
  filtered_log: "data/filtered_logs/<stem>/<stem>_<timestamp>.filtered.log"
  metadata: "data/filtered_logs/<stem>/<stem>_<timestamp>.metadata.json"
`
