// main.go - Rescue cipher driver.
//
// Runs the whole pipeline for one cipher instantiation:
//   - loads (or creates) the JSON configuration
//   - loads the cipher parameters, or generates and saves them
//   - encrypts and decrypts natively
//   - compiles the encryption and round-trip circuits
//   - loads or generates the Groth16 keys, proves the encryption and verifies it
//   - optionally proves a batch of random encryptions concurrently
//
// Usage:
//
//	go run ./cmd/rescue -config rescue.json -key 7,11,13 -plaintext 1,2,3
package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/rs/zerolog"

	"rescuecipher/internal/native"
	"rescuecipher/internal/params"
	"rescuecipher/internal/prover"
)

func main() {
	configPath := flag.String("config", "rescue.json", "path to the JSON configuration")
	keyFlag := flag.String("key", "7,11,13", "comma separated key elements (decimal)")
	plaintextFlag := flag.String("plaintext", "1,2,3", "comma separated plaintext elements (decimal)")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config %s: %v\n", *configPath, err)
		os.Exit(1)
	}

	log, closer, err := NewLogger(cfg.LogLevel, cfg.LogFile, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	metrics := NewMetricsCollector()
	if err := run(ctx, cfg, log, metrics, *keyFlag, *plaintextFlag, os.Stdout); err != nil {
		reportFailure(log, metrics, err)
		closer.Close()
		os.Exit(1)
	}
}

// reportFailure counts the failure and logs it together with the metrics
// gathered up to that point.
func reportFailure(log zerolog.Logger, metrics *MetricsCollector, err error) {
	kind := "run"
	switch {
	case errors.Is(err, params.ErrUnsatisfied):
		kind = "unsatisfied"
	case errors.Is(err, params.ErrShapeMismatch):
		kind = "shape"
	}
	metrics.RecordError(kind)
	log.Error().Err(err).Interface("metrics", metrics.Summary()).Msg("rescue driver failed")
}

func run(ctx context.Context, cfg *Config, log zerolog.Logger, metrics *MetricsCollector, keyFlag, plaintextFlag string, out io.Writer) error {
	shape := cfg.Shape()
	log = log.With().Stringer("shape", shape).Logger()

	key, err := parseVector(keyFlag, shape.Width)
	if err != nil {
		return fmt.Errorf("key: %w", err)
	}
	plaintext, err := parseVector(plaintextFlag, shape.Width)
	if err != nil {
		return fmt.Errorf("plaintext: %w", err)
	}

	p, err := loadOrGenerateParams(cfg, log, metrics)
	if err != nil {
		return err
	}

	// Native pass
	cipher, err := native.Materialize(p)
	if err != nil {
		return fmt.Errorf("materialize parameters: %w", err)
	}
	ciphertext, err := cipher.Encrypt(key, plaintext)
	if err != nil {
		return err
	}
	decrypted, err := cipher.Decrypt(key, ciphertext)
	if err != nil {
		return err
	}
	for i := range decrypted {
		if !decrypted[i].Equal(&plaintext[i]) {
			return fmt.Errorf("native round trip failed at entry %d", i)
		}
	}
	log.Info().Strs("ciphertext", elementStrings(ciphertext)).Msg("native encryption done")

	// Circuits
	if _, err := compile(log, metrics, "roundtrip", prover.NewRoundTripCircuit(shape)); err != nil {
		return err
	}
	ccs, err := compile(log, metrics, "encryption", prover.NewEncryptionCircuit(shape))
	if err != nil {
		return err
	}
	pkPath, vkPath := prover.KeyPaths(cfg.KeyDir, "encryption", shape)
	pk, vk, err := prover.SetupOrLoadKeys(ccs, pkPath, vkPath)
	if err != nil {
		return err
	}

	// Prove and verify
	start := time.Now()
	proof, err := prover.ProveEncryption(ccs, pk, p, key, plaintext)
	if err != nil {
		return err
	}
	metrics.RecordProofGeneration(time.Since(start))

	start = time.Now()
	if err := prover.VerifyEncryption(vk, p, proof); err != nil {
		return err
	}
	metrics.RecordProofVerification(time.Since(start))
	log.Info().Str("key_commitment", proof.KeyCommitment.String()).Msg("encryption proof verified")

	if cfg.BatchSize > 0 {
		if err := proveBatch(ctx, cfg, log, metrics, ccs, pk, vk, p); err != nil {
			return err
		}
	}

	summary := struct {
		Shape         params.Shape `json:"shape"`
		Ciphertext    []string     `json:"ciphertext"`
		KeyCommitment string       `json:"key_commitment"`
		Metrics       Summary      `json:"metrics"`
	}{
		Shape:         shape,
		Ciphertext:    elementStrings(ciphertext),
		KeyCommitment: proof.KeyCommitment.String(),
		Metrics:       metrics.Summary(),
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}

func loadOrGenerateParams(cfg *Config, log zerolog.Logger, metrics *MetricsCollector) (*params.Parameters, error) {
	p, err := params.LoadFromFile(cfg.ParamsPath)
	if err == nil {
		if p.Shape != cfg.Shape() {
			return nil, fmt.Errorf("%w: %s holds %s, config asks for %s", params.ErrShapeMismatch, cfg.ParamsPath, p.Shape, cfg.Shape())
		}
		log.Info().Str("path", cfg.ParamsPath).Msg("loaded cipher parameters")
		return p, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load parameters: %w", err)
	}

	var rng io.Reader = rand.Reader
	seed, err := cfg.SeedBytes()
	if err != nil {
		return nil, err
	}
	if seed != nil {
		rng = params.NewSeededReader(seed)
	}
	p, err = params.Generate(rng, cfg.Shape(),
		params.WithMaxAttempts(cfg.MaxSamplingAttempts),
		params.WithSampledHook(metrics.RecordSampling),
	)
	if err != nil {
		return nil, fmt.Errorf("generate parameters: %w", err)
	}
	if err := p.SaveToFile(cfg.ParamsPath); err != nil {
		return nil, fmt.Errorf("save parameters: %w", err)
	}
	log.Info().Str("path", cfg.ParamsPath).Bool("seeded", seed != nil).Msg("generated cipher parameters")
	return p, nil
}

func compile(log zerolog.Logger, metrics *MetricsCollector, name string, circuit frontend.Circuit) (constraint.ConstraintSystem, error) {
	start := time.Now()
	ccs, err := prover.Compile(circuit)
	if err != nil {
		return nil, fmt.Errorf("%s circuit: %w", name, err)
	}
	metrics.RecordCircuitCompile(name, time.Since(start), ccs.GetNbConstraints())
	log.Info().Str("circuit", name).Int("constraints", ccs.GetNbConstraints()).Msg("circuit compiled")
	return ccs, nil
}

func proveBatch(ctx context.Context, cfg *Config, log zerolog.Logger, metrics *MetricsCollector, ccs constraint.ConstraintSystem, pk groth16.ProvingKey, vk groth16.VerifyingKey, p *params.Parameters) error {
	jobs := make([]prover.Job, cfg.BatchSize)
	for i := range jobs {
		jobs[i] = prover.Job{Key: randomVector(p.Shape.Width), Plaintext: randomVector(p.Shape.Width)}
	}

	start := time.Now()
	proofs, err := prover.ProveBatch(ctx, ccs, pk, p, jobs, cfg.MaxConcurrency)
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	took := time.Since(start)
	perProof := took / time.Duration(len(proofs))
	for range proofs {
		metrics.RecordProofGeneration(perProof)
	}

	for i, proof := range proofs {
		if err := prover.VerifyEncryption(vk, p, proof); err != nil {
			return fmt.Errorf("batch job %d: %w", i, err)
		}
	}
	log.Info().Int("proofs", len(proofs)).Dur("took", took).Msg("batch proved and verified")
	return nil
}

// parseVector parses n comma separated decimal field elements.
func parseVector(s string, n int) ([]fr.Element, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("%w: %d elements given, want %d", params.ErrShapeMismatch, len(parts), n)
	}
	v := make([]fr.Element, n)
	for i, part := range parts {
		if _, err := v[i].SetString(strings.TrimSpace(part)); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return v, nil
}

func randomVector(n int) []fr.Element {
	v := make([]fr.Element, n)
	for i := range v {
		v[i].SetRandom()
	}
	return v
}

func elementStrings(v []fr.Element) []string {
	out := make([]string, len(v))
	for i := range v {
		out[i] = v[i].String()
	}
	return out
}
