package model

type Status string

const (
	StatusInStock   Status = "IN_STOCK"
	StatusNeedToBuy Status = "NEED_TO_BUY"
)

// Display labels used by the UI and accepted by the by-status filter.
const (
	StatusLabelInStock   = "在庫あり"
	StatusLabelNeedToBuy = "要購入"
)

// DeriveStatus is the only place the purchase-needed rule lives.
func DeriveStatus(stockQuantity, minimumStock int) Status {
	if stockQuantity < minimumStock {
		return StatusNeedToBuy
	}
	return StatusInStock
}

// ParseStatus accepts either a display label or the enum value.
func ParseStatus(value string) (Status, bool) {
	switch value {
	case StatusLabelInStock, string(StatusInStock):
		return StatusInStock, true
	case StatusLabelNeedToBuy, string(StatusNeedToBuy):
		return StatusNeedToBuy, true
	}
	return "", false
}

func (s Status) Label() string {
	switch s {
	case StatusInStock:
		return StatusLabelInStock
	case StatusNeedToBuy:
		return StatusLabelNeedToBuy
	}
	return string(s)
}
