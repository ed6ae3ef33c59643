package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/refprop"
	"github.com/wippyai/refprop/errors"
	"github.com/wippyai/refprop/marshal"
)

// translate turns a nonzero code into a calculation error. The message is
// fetched with a second native call on the same buffer; the caller must still
// hold the gate.
func (tx *Tx) translate(entry refprop.Entry, st *Status) error {
	if st.Code == 0 {
		return nil
	}

	code := st.Code
	tx.invoke(refprop.EntryErrMsg, func(lib refprop.Library) {
		lib.ErrMsg(&code, &st.Msg)
	})
	nativeErrors.WithLabelValues(string(entry)).Inc()

	msg, err := marshal.DecodeText(string(entry), st.Msg[:])
	if err != nil {
		Logger().Warn("undecodable native error message",
			zap.String("entry", string(entry)),
			zap.Int32("code", st.Code))
		return err
	}
	if msg == "" {
		msg = fmt.Sprintf("native error %d", st.Code)
	}

	Logger().Warn("native call failed",
		zap.String("entry", string(entry)),
		zap.Int32("code", st.Code),
		zap.String("message", msg))
	return errors.Calculation(string(entry), st.Code, msg)
}
