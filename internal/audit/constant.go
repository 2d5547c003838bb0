package audit

// Artifact file names. Every run directory must hold all six.
const (
	ManifestFile  = "repro_manifest.json"
	SnapshotFile  = "config_snapshot.yaml"
	MetricsFile   = "metrics.json"
	PerSampleFile = "per_sample_intent_results.jsonl"
	RunLogFile    = "run.log"
	SummaryFile   = "summary.md"
)

// RequiredArtifacts lists the artifacts in validation order.
var RequiredArtifacts = []string{
	ManifestFile,
	SnapshotFile,
	MetricsFile,
	PerSampleFile,
	RunLogFile,
	SummaryFile,
}

// dataKeyPrefix marks the dataset entry among the manifest input hashes.
const dataKeyPrefix = "DATA::"
