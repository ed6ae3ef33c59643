package fluid

import (
	"os"

	"github.com/wippyai/refprop"
	"github.com/wippyai/refprop/config"
	"github.com/wippyai/refprop/engine"
	"github.com/wippyai/refprop/errors"
	"github.com/wippyai/refprop/marshal"
)

// session holds the packed buffers of a setup sequence, built before the
// gate is taken.
type session struct {
	path    *[refprop.PathLen]byte
	fluids  *[refprop.FluidsLen]byte
	mixture *[refprop.MixtureLen]byte
	units   *[refprop.EnumLen]byte
}

func prepare(cfg *config.Config) (*session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &session{}
	var err error
	if s.path, err = packPath(cfg.Path); err != nil {
		return nil, err
	}
	if cfg.Fluids != "" {
		if s.fluids, err = packFluids(cfg.Fluids); err != nil {
			return nil, err
		}
	}
	if cfg.Mixture != "" {
		if s.mixture, err = packMixture(cfg.Mixture); err != nil {
			return nil, err
		}
	}
	if cfg.Units != "" {
		if s.units, err = packEnum(cfg.Units); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// apply runs the setup sequence inside the caller's critical section.
func (c *Client) apply(tx *engine.Tx, s *session) error {
	if err := setPath(tx, s.path); err != nil {
		return err
	}
	switch {
	case s.fluids != nil:
		if err := setFluids(tx, s.fluids); err != nil {
			return err
		}
	case s.mixture != nil:
		if _, err := setMixture(tx, s.mixture); err != nil {
			return err
		}
	}

	units := int32(0)
	if s.units != nil {
		code, err := getEnum(tx, UnitsOnly, s.units)
		if errors.KindOf(err) == errors.KindCalculation {
			return errors.Reclassify(err, errors.PhaseSetup, errors.KindInitialization)
		}
		if err != nil {
			return err
		}
		units = code
	}
	c.units = units
	return nil
}

// SetPath points the library at the directory holding its FLUIDS and
// MIXTURES folders. An empty path falls back to RPPREFIX.
func (c *Client) SetPath(path string) error {
	hpth, err := packPath(path)
	if err != nil {
		return err
	}
	return c.eng.Do(string(refprop.EntrySetPath), func(tx *engine.Tx) error {
		return setPath(tx, hpth)
	})
}

// SetFluids loads components separated by '|', ';' or '*', for example
// "NITROGEN;OXYGEN;ARGON".
func (c *Client) SetFluids(fluids string) error {
	hfld, err := packFluids(fluids)
	if err != nil {
		return err
	}
	return c.eng.Do(string(refprop.EntrySetFluids), func(tx *engine.Tx) error {
		return setFluids(tx, hfld)
	})
}

// SetMixture loads a predefined mixture and returns its composition.
func (c *Client) SetMixture(name string) ([]float64, error) {
	hmx, err := packMixture(name)
	if err != nil {
		return nil, err
	}
	var z []float64
	err = c.eng.Do(string(refprop.EntrySetMixture), func(tx *engine.Tx) error {
		var err error
		z, err = setMixture(tx, hmx)
		return err
	})
	return z, err
}

// PureFluid makes component icomp of the loaded mixture behave as a pure
// fluid. Zero restores the mixture.
func (c *Client) PureFluid(icomp int) error {
	if icomp < 0 || icomp > refprop.MaxComponents {
		return errors.InvalidInput(errors.PhaseValidate,
			"component %d out of range [0,%d]", icomp, refprop.MaxComponents)
	}
	n := int32(icomp)
	return c.eng.Call(refprop.EntryPureFluid, func(lib refprop.Library, _ *engine.Status) {
		lib.PureFluid(&n)
	}, nil)
}

// SatSpline builds the saturation splines for composition z, speeding up
// later mixture flashes.
func (c *Client) SatSpline(z []float64) error {
	if err := marshal.ValidateComposition(z); err != nil {
		return err
	}
	zb, err := marshal.PackComposition(z)
	if err != nil {
		return err
	}
	return c.eng.Do(string(refprop.EntrySatSpline), func(tx *engine.Tx) error {
		return tx.Setup(refprop.EntrySatSpline, func(lib refprop.Library, st *engine.Status) {
			lib.SatSpline(&zb, &st.Code, &st.Msg)
		}, nil)
	})
}

func packPath(path string) (*[refprop.PathLen]byte, error) {
	if path == "" {
		path = os.Getenv(config.EnvPrefix)
	}
	if path == "" {
		return nil, errors.Initialization(string(refprop.EntrySetPath),
			"no search path given and "+config.EnvPrefix+" is not set", nil)
	}
	var buf [refprop.PathLen]byte
	if err := marshal.PackText(buf[:], path, "search path", marshal.Reject); err != nil {
		return nil, err
	}
	return &buf, nil
}

func packFluids(fluids string) (*[refprop.FluidsLen]byte, error) {
	var buf [refprop.FluidsLen]byte
	if err := marshal.PackText(buf[:], fluids, "fluid list", marshal.Reject); err != nil {
		return nil, err
	}
	return &buf, nil
}

func packMixture(name string) (*[refprop.MixtureLen]byte, error) {
	var buf [refprop.MixtureLen]byte
	if err := marshal.PackText(buf[:], name, "mixture name", marshal.Reject); err != nil {
		return nil, err
	}
	return &buf, nil
}

func setPath(tx *engine.Tx, hpth *[refprop.PathLen]byte) error {
	return tx.Setup(refprop.EntrySetPath, func(lib refprop.Library, _ *engine.Status) {
		lib.SetPath(hpth)
	}, nil)
}

func setFluids(tx *engine.Tx, hfld *[refprop.FluidsLen]byte) error {
	return tx.Setup(refprop.EntrySetFluids, func(lib refprop.Library, st *engine.Status) {
		lib.SetFluids(hfld, &st.Code)
	}, nil)
}

func setMixture(tx *engine.Tx, hmx *[refprop.MixtureLen]byte) ([]float64, error) {
	var z refprop.Composition
	var out []float64
	err := tx.Setup(refprop.EntrySetMixture,
		func(lib refprop.Library, st *engine.Status) {
			lib.SetMixture(hmx, &z, &st.Code)
		},
		func() error {
			out = marshal.LeadingPositive(z[:])
			return nil
		})
	return out, err
}
