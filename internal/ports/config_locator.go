package ports

// ConfigLocator finds the directory holding fastestraces.yaml, starting from an arbitrary directory.
type ConfigLocator interface {
	FindRoot(startDir string) (string, error)
}
