// Package protocol holds the typing-race wire format: one JSON object per line,
// tagged by a messageType field.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const TagField = "messageType"

var (
	ErrUndefinedType = errors.New("undefined message type")
	ErrMalformed     = errors.New("malformed message")
)

func UnmarshalJSON[T any](data []byte) (T, error) {
	var parsed T
	err := json.Unmarshal(data, &parsed)
	return parsed, err
}

func decodeAs[T Message](data []byte) (Message, error) {
	parsed, err := UnmarshalJSON[T](data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return parsed, nil
}

// Encode marshals m and stamps its messageType tag.
func Encode(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(data, TagField, m.Type())
}

// Decode returns one of the message structs of this package, selected by the
// messageType tag.
func Decode(data []byte) (Message, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrMalformed
	}
	tag := gjson.GetBytes(data, TagField)
	switch tag.String() {
	case TypeNewGameRequest:
		return decodeAs[NewGameRequest](data)
	case TypeJoinGameRequest:
		return decodeAs[JoinGameRequest](data)
	case TypeStartGameRequest:
		return StartGameRequest{}, nil
	case TypeFinishedWordRequest:
		return decodeAs[FinishedWordRequest](data)
	case TypeJoinGameResponse:
		return decodeAs[JoinGameResponse](data)
	case TypeGameDoesNotExistsResponse:
		return GameDoesNotExistsResponse{}, nil
	case TypePlayerNameAlreadyExistsResponse:
		return PlayerNameAlreadyExistsResponse{}, nil
	case TypePlayerJoinedNotification:
		return decodeAs[PlayerJoinedNotification](data)
	case TypePlayerLeftNotification:
		return decodeAs[PlayerLeftNotification](data)
	case TypeUpdateCountdownNotification:
		return decodeAs[UpdateCountdownNotification](data)
	case TypePlayerFinishedWord:
		return decodeAs[PlayerFinishedWord](data)
	case TypeGameFinishedNotification:
		return decodeAs[GameFinishedNotification](data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUndefinedType, tag.String())
}
