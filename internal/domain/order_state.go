package domain

import "errors"

type OrderState string

const (
	OrderStateOpen   OrderState = "open"
	OrderStatePlaced OrderState = "placed"
)

type AddressType string

// remember to add new types to the validAddressTypes map
const (
	AddressTypeShipping AddressType = "shipping"
	AddressTypeBilling  AddressType = "billing"
)

var validAddressTypes = map[AddressType]struct{}{
	AddressTypeShipping: {},
	AddressTypeBilling:  {},
}

func ToAddressType(s string) (AddressType, error) {
	t := AddressType(s)
	if _, ok := validAddressTypes[t]; ok {
		return t, nil
	}

	return "", errors.New("invalid address type")
}

type ProcessorKind string

// remember to add new processors to the validProcessorKinds map
const (
	ProcessorStripe ProcessorKind = "stripe"
	ProcessorPayPal ProcessorKind = "paypal"
)

var validProcessorKinds = map[ProcessorKind]struct{}{
	ProcessorStripe: {},
	ProcessorPayPal: {},
}

func ToProcessorKind(s string) (ProcessorKind, error) {
	kind := ProcessorKind(s)
	if _, ok := validProcessorKinds[kind]; ok {
		return kind, nil
	}

	return "", errors.New("invalid processor kind")
}
