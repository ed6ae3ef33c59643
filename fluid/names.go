package fluid

import (
	"github.com/wippyai/refprop"
	"github.com/wippyai/refprop/engine"
	"github.com/wippyai/refprop/errors"
	"github.com/wippyai/refprop/marshal"
)

// NameOutput identifies one component of the loaded fluid.
type NameOutput struct {
	Short string // 12 character name
	Long  string // long form name
	CAS   string // Chemical Abstracts Service number
}

// Name returns the names of component icomp, counted from 1.
func (c *Client) Name(icomp int) (NameOutput, error) {
	if icomp < 1 || icomp > refprop.MaxComponents {
		return NameOutput{}, errors.InvalidInput(errors.PhaseValidate,
			"component %d out of range [1,%d]", icomp, refprop.MaxComponents)
	}
	return c.name(int32(icomp))
}

// FluidFile returns the path of the fluid file component i was loaded from.
func (c *Client) FluidFile(i int) (string, error) {
	if i < 1 || i > refprop.MaxComponents {
		return "", errors.InvalidInput(errors.PhaseValidate,
			"component %d out of range [1,%d]", i, refprop.MaxComponents)
	}
	out, err := c.name(-int32(i))
	return out.Long, err
}

func (c *Client) name(icomp int32) (NameOutput, error) {
	var hnam [refprop.NameLen]byte
	var hn80 [refprop.LongNameLen]byte
	var hcasn [refprop.CASLen]byte

	var out NameOutput
	err := c.eng.Call(refprop.EntryName,
		func(lib refprop.Library, _ *engine.Status) {
			lib.Name(&icomp, &hnam, &hn80, &hcasn)
		},
		func() error {
			entry := string(refprop.EntryName)
			var err error
			if out.Short, err = marshal.DecodeText(entry, hnam[:]); err != nil {
				return err
			}
			if out.Long, err = marshal.DecodeText(entry, hn80[:]); err != nil {
				return err
			}
			out.CAS, err = marshal.DecodeText(entry, hcasn[:])
			return err
		})
	if err != nil {
		return NameOutput{}, err
	}
	return out, nil
}

// GetEnum translates text into the library's enumeration for it. Only a
// prefix is significant, so text longer than the field is truncated.
func (c *Client) GetEnum(flag GetEnumFlag, text string) (int32, error) {
	if !flag.Valid() {
		return 0, errors.InvalidInput(errors.PhaseValidate,
			"enumeration flag %d out of range [%d,%d]", flag, AllStrings, TrivialOnly)
	}
	henum, err := packEnum(text)
	if err != nil {
		return 0, err
	}

	var code int32
	err = c.eng.Do(string(refprop.EntryGetEnum), func(tx *engine.Tx) error {
		var err error
		code, err = getEnum(tx, flag, henum)
		return err
	})
	return code, err
}

// ResolveUnits returns the enumeration of a unit system.
func (c *Client) ResolveUnits(u Units) (int32, error) {
	return c.GetEnum(UnitsOnly, string(u))
}

func packEnum[T ~string](text T) (*[refprop.EnumLen]byte, error) {
	var buf [refprop.EnumLen]byte
	if err := marshal.PackText(buf[:], string(text), "enumeration text", marshal.Truncate); err != nil {
		return nil, err
	}
	return &buf, nil
}

func getEnum(tx *engine.Tx, flag GetEnumFlag, henum *[refprop.EnumLen]byte) (int32, error) {
	iflag := int32(flag)
	var ienum int32
	err := tx.Call(refprop.EntryGetEnum, func(lib refprop.Library, st *engine.Status) {
		lib.GetEnum(&iflag, henum, &ienum, &st.Code, &st.Msg)
	}, nil)
	if err != nil {
		return 0, err
	}
	return ienum, nil
}
