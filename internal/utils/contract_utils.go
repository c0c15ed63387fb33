package utils

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// EncodeConstructorArgs ABI-encodes constructor arguments. Loosely typed
// values (hex strings for addresses, decimal strings or Go ints for
// integers) are coerced to the types the constructor declares.
func EncodeConstructorArgs(parsedABI abi.ABI, args []any) ([]byte, error) {
	constructor := parsedABI.Constructor

	// Check if constructor requires arguments but none provided
	if len(constructor.Inputs) > 0 && len(args) == 0 {
		return nil, fmt.Errorf("contract constructor requires %d arguments but none provided", len(constructor.Inputs))
	}

	if len(constructor.Inputs) == 0 && len(args) == 0 {
		return []byte{}, nil
	}

	processedArgs, err := CoerceArgs(constructor.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("failed to process constructor arguments: %w", err)
	}

	encodedArgs, err := constructor.Inputs.Pack(processedArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}

	return encodedArgs, nil
}

// EncodeFunctionCall ABI-encodes a call to functionName, selector included.
func EncodeFunctionCall(parsedABI abi.ABI, functionName string, args []any) ([]byte, error) {
	method, ok := parsedABI.Methods[functionName]
	if !ok {
		return nil, fmt.Errorf("function %s not found in ABI", functionName)
	}

	processedArgs, err := CoerceArgs(method.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("failed to process arguments of %s: %w", functionName, err)
	}

	encodedData, err := parsedABI.Pack(functionName, processedArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode function call: %w", err)
	}

	return encodedData, nil
}

// CoerceArgs converts args to the Go types go-ethereum packs for inputs.
func CoerceArgs(inputs abi.Arguments, args []any) ([]any, error) {
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(inputs), len(args))
	}

	processedArgs := make([]any, len(args))
	for i, input := range inputs {
		processedArg, err := processArg(input.Type, args[i])
		if err != nil {
			return nil, fmt.Errorf("failed to process argument %d (%s): %w", i, input.Name, err)
		}
		processedArgs[i] = processedArg
	}
	return processedArgs, nil
}

func processArg(argType abi.Type, value any) (any, error) {
	switch argType.T {
	case abi.AddressTy:
		switch v := value.(type) {
		case string:
			if !common.IsHexAddress(v) {
				return nil, fmt.Errorf("invalid address: %s", v)
			}
			return common.HexToAddress(v), nil
		case common.Address:
			return v, nil
		default:
			return nil, fmt.Errorf("unsupported address type: %T", value)
		}

	case abi.UintTy, abi.IntTy:
		bigInt, err := toBigInt(value)
		if err != nil {
			return nil, err
		}
		if argType.T == abi.UintTy && bigInt.Sign() < 0 {
			return nil, fmt.Errorf("negative value %s for %s", bigInt, argType)
		}
		return fitInteger(argType, bigInt)

	case abi.BoolTy:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			return strings.ToLower(v) == "true", nil
		default:
			return nil, fmt.Errorf("unsupported bool type: %T", value)
		}

	case abi.StringTy:
		switch v := value.(type) {
		case string:
			return v, nil
		default:
			return nil, fmt.Errorf("unsupported string type: %T", value)
		}

	case abi.BytesTy, abi.FixedBytesTy:
		var raw []byte
		switch v := value.(type) {
		case string:
			decoded, err := hex.DecodeString(strings.TrimPrefix(v, "0x"))
			if err != nil {
				return nil, fmt.Errorf("invalid hex string: %w", err)
			}
			raw = decoded
		case []byte:
			raw = v
		default:
			return nil, fmt.Errorf("unsupported bytes type: %T", value)
		}
		if argType.T == abi.BytesTy {
			return raw, nil
		}
		if len(raw) != argType.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", argType.Size, len(raw))
		}
		fixed := reflect.New(argType.GetType()).Elem()
		reflect.Copy(fixed, reflect.ValueOf(raw))
		return fixed.Interface(), nil

	case abi.ArrayTy, abi.SliceTy:
		slice, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("expected array, got %T", value)
		}
		if argType.T == abi.ArrayTy && len(slice) != argType.Size {
			return nil, fmt.Errorf("expected %d elements, got %d", argType.Size, len(slice))
		}

		// Packing needs the concrete element type, not []any.
		out := reflect.MakeSlice(reflect.SliceOf(argType.Elem.GetType()), len(slice), len(slice))
		for i, elem := range slice {
			processed, err := processArg(*argType.Elem, elem)
			if err != nil {
				return nil, fmt.Errorf("failed to process array element %d: %w", i, err)
			}
			out.Index(i).Set(reflect.ValueOf(processed))
		}
		if argType.T == abi.SliceTy {
			return out.Interface(), nil
		}
		array := reflect.New(argType.GetType()).Elem()
		reflect.Copy(array, out)
		return array.Interface(), nil

	default:
		return nil, fmt.Errorf("unsupported argument type: %v", argType)
	}
}

func toBigInt(value any) (*big.Int, error) {
	switch v := value.(type) {
	case string:
		bigInt, ok := new(big.Int).SetString(v, 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer: %s", v)
		}
		return bigInt, nil
	case *big.Int:
		return new(big.Int).Set(v), nil
	case int:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case float64:
		if v != float64(int64(v)) {
			return nil, fmt.Errorf("non-integral number: %v", v)
		}
		return big.NewInt(int64(v)), nil
	default:
		return nil, fmt.Errorf("unsupported integer type: %T", value)
	}
}

// fitInteger returns the Go type go-ethereum expects for sized integers:
// uint8..uint64 and int8..int64 are native, everything else is *big.Int.
func fitInteger(argType abi.Type, v *big.Int) (any, error) {
	if argType.Size > 64 {
		if v.BitLen() > argType.Size {
			return nil, fmt.Errorf("value %s overflows %s", v, argType)
		}
		return v, nil
	}

	target := argType.GetType()
	out := reflect.New(target).Elem()
	switch target.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if !v.IsUint64() || out.OverflowUint(v.Uint64()) {
			return nil, fmt.Errorf("value %s overflows %s", v, argType)
		}
		out.SetUint(v.Uint64())
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !v.IsInt64() || out.OverflowInt(v.Int64()) {
			return nil, fmt.Errorf("value %s overflows %s", v, argType)
		}
		out.SetInt(v.Int64())
	default:
		return v, nil
	}
	return out.Interface(), nil
}
