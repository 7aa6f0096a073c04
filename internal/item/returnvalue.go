package item

// ReturnValue is the outcome of an inventory or container query. Every
// placement path returns exactly one of these instead of an error.
type ReturnValue uint8

const (
	RetNoError ReturnValue = iota
	RetNotPossible
	RetNotEnoughRoom
	RetNotEnoughCapacity
	RetCannotPickup
	RetCannotBeDressed
	RetPutThisObjectInYourHand
	RetPutThisObjectInBothHands
	RetBothHandsNeedToBeFree
	RetCanOnlyUseOneShield
	RetCanOnlyUseOneWeapon
	RetDropTwoHandedItem
	RetNeedExchange
	RetNotMoveable
	RetActionNotPermittedInPZ
	RetYouNeedPremium
	RetYouAreExhausted
	RetThereIsNoWay
	RetContainerNotEnoughRoom
	RetDepotIsFull
)

var returnMessages = map[ReturnValue]string{
	RetNotPossible:              "Sorry, not possible.",
	RetNotEnoughRoom:            "There is not enough room.",
	RetNeedExchange:             "There is not enough room.",
	RetNotEnoughCapacity:        "This object is too heavy for you to carry.",
	RetCannotPickup:             "You cannot take this object.",
	RetCannotBeDressed:          "You cannot dress this object there.",
	RetPutThisObjectInYourHand:  "Put this object in your hand.",
	RetPutThisObjectInBothHands: "Put this object in both hands.",
	RetBothHandsNeedToBeFree:    "Both hands need to be free.",
	RetCanOnlyUseOneShield:      "You may use only one shield.",
	RetCanOnlyUseOneWeapon:      "You may only use one weapon.",
	RetDropTwoHandedItem:        "Drop the double-handed object first.",
	RetNotMoveable:              "You cannot move this object.",
	RetActionNotPermittedInPZ:   "This action is not permitted in a protection zone.",
	RetYouNeedPremium:           "You need a premium account.",
	RetYouAreExhausted:          "You are exhausted.",
	RetThereIsNoWay:             "There is no way.",
	RetContainerNotEnoughRoom:   "You cannot put more objects in this container.",
	RetDepotIsFull:              "You cannot put more items in this depot.",
}

// Message is the text shown to the client for a failed query.
func (r ReturnValue) Message() string {
	if r == RetNoError {
		return ""
	}
	if m, ok := returnMessages[r]; ok {
		return m
	}
	return returnMessages[RetNotPossible]
}

func (r ReturnValue) OK() bool { return r == RetNoError }

func (r ReturnValue) String() string {
	if r == RetNoError {
		return "ok"
	}
	return r.Message()
}
