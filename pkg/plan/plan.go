package plan

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yurifrl/extratos/pkg/config"
	"github.com/yurifrl/extratos/pkg/models"
)

// Plan is a batch of banks processed in one go, e.g.
//
//	base_dir: /data/extratos
//	period: NOVEMBRO 2025
//	banks:
//	  - id: bb
//	  - id: caixa
//	    dir: /mnt/caixa
type Plan struct {
	BaseDir string  `yaml:"base_dir"`
	Period  string  `yaml:"period"`
	Banks   []Entry `yaml:"banks"`
}

type Entry struct {
	ID  string `yaml:"id"`
	Dir string `yaml:"dir"`
}

func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate rejects empty plans, unknown banks and banks listed twice.
func (p *Plan) Validate() error {
	if len(p.Banks) == 0 {
		return fmt.Errorf("plan has no banks")
	}
	seen := make(map[models.Bank]bool, len(p.Banks))
	for i, e := range p.Banks {
		bank, err := models.ParseBank(e.ID)
		if err != nil {
			return fmt.Errorf("plan entry %d: %w", i+1, err)
		}
		if seen[bank] {
			return fmt.Errorf("plan entry %d: bank %s listed twice", i+1, bank)
		}
		seen[bank] = true
	}
	return nil
}

// Config layers the plan on top of base: base_dir and period when set,
// plus one directory override per entry that has a dir.
func (p *Plan) Config(base *config.Config) *config.Config {
	cfg := *base
	if p.BaseDir != "" {
		cfg.BaseDir = p.BaseDir
	}
	if p.Period != "" {
		cfg.Period = p.Period
	}
	out := &cfg
	for _, e := range p.Banks {
		if e.Dir == "" {
			continue
		}
		bank, _ := models.ParseBank(e.ID)
		out = out.WithBankDir(bank, e.Dir)
	}
	return out
}

// BankList returns the entries as bank identifiers, in plan order.
func (p *Plan) BankList() []models.Bank {
	out := make([]models.Bank, 0, len(p.Banks))
	for _, e := range p.Banks {
		if bank, err := models.ParseBank(e.ID); err == nil {
			out = append(out, bank)
		}
	}
	return out
}

// Print writes the plan with every bank's resolved directory.
func (p *Plan) Print(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "Base dir: %s  period: %s\n", cfg.BaseDir, cfg.Period)
	for i, bank := range p.BankList() {
		fmt.Fprintf(w, "[%d] bank=%s dir=%s\n", i+1, bank, cfg.BankDir(bank))
	}
}
