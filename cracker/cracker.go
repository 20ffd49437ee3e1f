// Package cracker runs a many-time pad attack end to end: it loads a corpus
// of hex-encoded ciphertexts, recovers the shared key stream or applies a
// known one, and presents the result.
package cracker

import (
	"io"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/nats-io/nuid"
	"github.com/pkg/errors"

	"github.com/liftbridge-io/mtpcrack/cracker/corpus"
	"github.com/liftbridge-io/mtpcrack/cracker/engine"
	"github.com/liftbridge-io/mtpcrack/cracker/keystore"
	"github.com/liftbridge-io/mtpcrack/cracker/logger"
	"github.com/liftbridge-io/mtpcrack/cracker/stats"
	"github.com/liftbridge-io/mtpcrack/cracker/xorcipher"
)

// Cracker performs a single run as described by its Config.
type Cracker struct {
	config   *Config
	logger   logger.Logger
	stats    *stats.Stats
	keystore keystore.Handler
	runID    string
}

// New creates a Cracker for the given configuration.
func New(config *Config) *Cracker {
	l := logger.NewLogger(config.LogLevel)
	runID := nuid.Next()
	l.Prefix("[" + runID[len(runID)-6:] + "] ")
	return &Cracker{
		config: config,
		logger: l,
		stats:  stats.New(),
		runID:  runID,
	}
}

// SetLogger replaces the logger, mostly for tests.
func (c *Cracker) SetLogger(l logger.Logger) {
	c.logger = l
}

// SetKeystore replaces the handler used to seal and open saved keys. By
// default the handler is built from the environment when first needed.
func (c *Cracker) SetKeystore(h keystore.Handler) {
	c.keystore = h
}

// RunID returns the identifier attached to this run's log lines.
func (c *Cracker) RunID() string {
	return c.runID
}

// Run computes the output for the configured mode and writes it to out. If
// statistics are enabled they are written to statsOut. Nothing is written to
// out unless the whole computation succeeds.
func (c *Cracker) Run(out, statsOut io.Writer) error {
	if err := c.config.Validate(); err != nil {
		return err
	}
	output, err := c.Compute()
	if err != nil {
		return err
	}
	if _, err := output.WriteTo(out); err != nil {
		return errors.Wrap(err, "failed to write output")
	}
	if c.config.Stats && c.config.Mode.cracks() {
		if err := stats.Print(statsOut, c.stats, c.config.StatsFormat); err != nil {
			return errors.Wrap(err, "failed to write statistics")
		}
	}
	return nil
}

// Compute loads the corpus and produces the output for the configured mode
// without presenting it.
func (c *Cracker) Compute() (*Output, error) {
	ciphertexts, err := corpus.LoadFile(c.config.InputFile)
	if err != nil {
		return nil, err
	}
	c.logger.Infof("Loaded %s messages (%s) from %s",
		humanize.Comma(int64(len(ciphertexts))),
		humanize.Bytes(uint64(ciphertexts.Size())), c.config.InputFile)

	if c.config.Mode == ModeDecrypt {
		return c.decrypt(ciphertexts)
	}
	return c.crack(ciphertexts)
}

func (c *Cracker) crack(ciphertexts corpus.Corpus) (*Output, error) {
	if len(ciphertexts) == 0 {
		c.logger.Warn("Corpus is empty, nothing to crack")
	}
	e := engine.New(c.config.engineOptions()...)

	c.stats.Start()
	res := e.Crack(ciphertexts)
	c.stats.Stop()
	c.stats.RecordCorpus(len(ciphertexts), ciphertexts.Size())
	c.stats.RecordResult(res)

	c.logger.Infof("Resolved %d of %d columns in %s",
		res.Key.ResolvedCount(), res.Key.Len(), durafmt.Parse(c.stats.Duration()))
	for _, col := range res.Columns {
		if !col.Resolved {
			c.logger.Debugf("Column %d unresolved: best score %d of %d participants",
				col.Index, col.BestScore, col.Participants)
		}
	}

	if c.config.SaveKeyFile != "" {
		h, err := c.getKeystore()
		if err != nil {
			return nil, err
		}
		if err := keystore.SaveKey(h, c.config.SaveKeyFile, res.Key); err != nil {
			return nil, err
		}
		c.logger.Infof("Sealed recovered key into %s", c.config.SaveKeyFile)
	}

	return &Output{
		Mode:       c.config.Mode,
		Key:        res.Key,
		Plaintexts: res.Plaintexts,
	}, nil
}

func (c *Cracker) decrypt(ciphertexts corpus.Corpus) (*Output, error) {
	key, err := c.decryptionKey()
	if err != nil {
		return nil, err
	}
	plaintexts, err := xorcipher.Apply(ciphertexts, key)
	if err != nil {
		return nil, err
	}
	c.logger.Infof("Decrypted %d messages with a %d byte key", len(plaintexts), len(key))
	return &Output{
		Mode:       ModeDecrypt,
		Plaintexts: plaintexts,
	}, nil
}

// decryptionKey returns the hex key from the config or, failing that, the
// sealed key file. Unresolved positions of a sealed key decrypt as zero.
func (c *Cracker) decryptionKey() ([]byte, error) {
	if c.config.Key != "" {
		return xorcipher.ParseKey(c.config.Key)
	}
	h, err := c.getKeystore()
	if err != nil {
		return nil, err
	}
	k, err := keystore.LoadKey(h, c.config.LoadKeyFile)
	if err != nil {
		return nil, err
	}
	if k.ResolvedCount() < k.Len() {
		c.logger.Warnf("Sealed key has %d unresolved positions", k.Len()-k.ResolvedCount())
	}
	return k.Bytes, nil
}

func (c *Cracker) getKeystore() (keystore.Handler, error) {
	if c.keystore != nil {
		return c.keystore, nil
	}
	h, err := keystore.NewLocalHandler()
	if err != nil {
		return nil, err
	}
	c.keystore = h
	return h, nil
}
