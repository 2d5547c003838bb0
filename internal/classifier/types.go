package classifier

// File names written by Save and read by Load.
const (
	ModelFile    = "intent_model.json"
	ManifestFile = "intent_training_manifest.json"
)

// Defaults for TrainOptions fields left at zero.
const (
	DefaultIterations   = 300
	DefaultLearningRate = 0.5
	DefaultL2           = 1e-4
	DefaultMaxFeatures  = 20000
	maxNGram            = 2
)

// TrainOptions are the training hyper-parameters.
type TrainOptions struct {
	Iterations   int
	LearningRate float64
	L2           float64
	MaxFeatures  int
	// DataHashes maps each training file name to its SHA-256, for the manifest.
	DataHashes map[string]string
}

func (o TrainOptions) withDefaults() TrainOptions {
	if o.Iterations <= 0 {
		o.Iterations = DefaultIterations
	}
	if o.LearningRate <= 0 {
		o.LearningRate = DefaultLearningRate
	}
	if o.L2 < 0 {
		o.L2 = 0
	}
	if o.MaxFeatures <= 0 {
		o.MaxFeatures = DefaultMaxFeatures
	}
	return o
}

// Model is a TF-IDF vectorizer plus one logistic regression per label.
type Model struct {
	Terms   []string    `json:"terms"` // sorted; position is the feature index
	IDF     []float64   `json:"idf"`
	Labels  []string    `json:"labels"`
	Weights [][]float64 `json:"weights"` // [label][feature]
	Bias    []float64   `json:"bias"`

	index map[string]int
}

// Manifest describes how a model was trained.
type Manifest struct {
	LabelOrder   []string          `json:"label_order"`
	NSamples     int               `json:"n_samples"`
	NFeatures    int               `json:"n_features"`
	DataHashes   map[string]string `json:"data_hashes"`
	Iterations   int               `json:"iterations"`
	LearningRate float64           `json:"learning_rate"`
	L2           float64           `json:"l2"`
	MaxFeatures  int               `json:"max_features"`
	NGramRange   [2]int            `json:"ngram_range"`
	ModelSHA256  string            `json:"model_sha256"`
}

type feature struct {
	idx int
	val float64
}

type vector []feature
