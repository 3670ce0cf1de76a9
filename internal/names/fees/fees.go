// Package fees computes what a mint costs and how a paid fee is settled.
package fees

import (
	"math"
	"math/bits"

	"whoami/internal/names/models"
	"whoami/pkg/domain"
	dErrors "whoami/pkg/domain-errors"
)

// ComputeMintFee returns the fee owed for a name of nameLength characters.
// The surcharge applies only to names strictly shorter than its threshold.
// ok is false when nothing is owed and no payment may be attempted.
func ComputeMintFee(fees models.MintingFees, nameLength uint32) (fee uint64, ok bool) {
	var surcharge *uint64
	if s := fees.ShortNameSurcharge; s != nil && nameLength < s.MaxCharacters {
		surcharge = &s.Fee
	}

	switch {
	case fees.BaseMintFee != nil && surcharge != nil:
		return saturatingAdd(*fees.BaseMintFee, *surcharge), true
	case fees.BaseMintFee != nil:
		return *fees.BaseMintFee, true
	case surcharge != nil:
		return *surcharge, true
	default:
		return 0, false
	}
}

func saturatingAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

// SplitFee divides fee between the admin and the burn. The burn share is
// floor(fee*pct/100) and the admin absorbs the remainder, so the shares
// always sum to fee. A nil percentage sends everything to the admin.
func SplitFee(fee uint64, burnPercentage *uint64) (toAdmin, toBurn uint64) {
	if burnPercentage == nil {
		return fee, 0
	}
	pct := min(*burnPercentage, 100)
	hi, lo := bits.Mul64(fee, pct)
	toBurn, _ = bits.Div64(hi, lo, 100)
	return fee - toBurn, toBurn
}

// VerifyPayment checks the attached funds: exactly one coin, of denom, covering fee.
func VerifyPayment(funds []models.Coin, denom string, fee uint64) error {
	if len(funds) != 1 {
		return dErrors.New(dErrors.CodeInsufficientFunds, "exactly one coin must be attached")
	}
	coin := funds[0]
	if coin.Denom != denom {
		return dErrors.New(dErrors.CodeInsufficientFunds, "payment must be in "+denom)
	}
	if coin.Amount < fee {
		return dErrors.New(dErrors.CodeInsufficientFunds, "payment does not cover the mint fee")
	}
	return nil
}

// SettlementMessages returns the bank instructions that settle a paid fee:
// a send of the admin share and a burn of the rest. Zero shares emit nothing.
func SettlementMessages(fee uint64, settings *models.Settings) []models.Message {
	toAdmin, toBurn := SplitFee(fee, settings.MintingFees.BurnPercentage)
	denom := settings.MintingFees.NativeDenom

	var msgs []models.Message
	if toAdmin > 0 {
		msgs = append(msgs, models.Message{
			Kind:      models.MessageBankSend,
			ToAddress: settings.AdminAddress,
			Amount:    []models.Coin{{Denom: denom, Amount: toAdmin}},
		})
	}
	if toBurn > 0 {
		msgs = append(msgs, models.Message{
			Kind:   models.MessageBankBurn,
			Amount: []models.Coin{{Denom: denom, Amount: toBurn}},
		})
	}
	return msgs
}

// Quote is a fee preview for a prospective name.
type Quote struct {
	Name    string         `json:"name"`
	Fee     *models.Coin   `json:"fee,omitempty"`
	ToAdmin uint64         `json:"to_admin"`
	ToBurn  uint64         `json:"to_burn"`
	Admin   domain.Address `json:"admin"`
}

// QuoteFor previews the fee and split for name without touching any state.
func QuoteFor(name string, nameLength uint32, settings *models.Settings) Quote {
	q := Quote{Name: name, Admin: settings.AdminAddress}
	fee, ok := ComputeMintFee(settings.MintingFees, nameLength)
	if !ok {
		return q
	}
	q.Fee = &models.Coin{Denom: settings.MintingFees.NativeDenom, Amount: fee}
	q.ToAdmin, q.ToBurn = SplitFee(fee, settings.MintingFees.BurnPercentage)
	return q
}
