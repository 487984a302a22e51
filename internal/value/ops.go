package value

// BinaryOp applies an infix operator to two values. Invalid operands yield
// None without an error; the caller reports on (None, false).
func BinaryOp(op string, a, b Value) (Value, bool) {
	if !a.Valid() || !b.Valid() {
		// Error already reported where the operand failed.
		return None, true
	}

	switch op {
	case "==":
		return Bool(a.Equal(b)), true
	case "!=":
		return Bool(!a.Equal(b)), true
	}

	// String concatenation.
	if op == "+" && a.Kind == KindString && b.Kind == KindString {
		return Str(a.S + b.S), true
	}

	// Integer arithmetic stays integral.
	if a.Kind == KindInteger && b.Kind == KindInteger {
		switch op {
		case "+":
			return Int(a.I + b.I), true
		case "-":
			return Int(a.I - b.I), true
		case "*":
			return Int(a.I * b.I), true
		case "/":
			if b.I == 0 {
				return None, false
			}
			return Int(a.I / b.I), true
		case "%":
			if b.I == 0 {
				return None, false
			}
			return Int(a.I % b.I), true
		case "<":
			return Bool(a.I < b.I), true
		case "<=":
			return Bool(a.I <= b.I), true
		case ">":
			return Bool(a.I > b.I), true
		case ">=":
			return Bool(a.I >= b.I), true
		}
		return None, false
	}

	an, aok := a.AsNumber()
	bn, bok := b.AsNumber()
	if !aok || !bok {
		return None, false
	}
	switch op {
	case "+":
		return Number(an + bn), true
	case "-":
		return Number(an - bn), true
	case "*":
		return Number(an * bn), true
	case "/":
		if bn == 0 {
			return None, false
		}
		return Number(an / bn), true
	case "<":
		return Bool(an < bn), true
	case "<=":
		return Bool(an <= bn), true
	case ">":
		return Bool(an > bn), true
	case ">=":
		return Bool(an >= bn), true
	}
	return None, false
}

// UnaryOp applies a prefix operator.
func UnaryOp(op string, v Value) (Value, bool) {
	if !v.Valid() {
		return None, true
	}
	switch op {
	case "-":
		switch v.Kind {
		case KindInteger:
			return Int(-v.I), true
		case KindNumber:
			return Number(-v.N), true
		}
	case "!":
		if v.Kind == KindBool {
			return Bool(!v.B), true
		}
	}
	return None, false
}
