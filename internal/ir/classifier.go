package ir

type (
	// typeRule validates a payload and derives the type of the node it
	// describes. NoNodeID means the node has no type.
	typeRule func(a *Arena, p Payload) (NodeID, error)
	// bodyRule validates a body about to be attached to a nominal node.
	bodyRule func(a *Arena, p Payload, body NodeID) error
)

// KindInfo is the classifier entry of one kind. The same table drives
// hashing, equality, typing, printing and the text reader.
type KindInfo struct {
	Name     string
	Category Category
	// Nominal kinds are identified by allocation, structural kinds by content.
	Nominal bool
	// Relevant lists the fields that take part in identity; nil means all.
	Relevant []string
	// Body names the field attached by SetBody (nominal kinds only).
	Body string
	// Proto is the zero payload of the kind, nil for kinds without fields.
	Proto Payload

	typeOf    typeRule
	checkBody bodyRule
}

var kindTable [kindCount]KindInfo

func init() {
	kindTable = [kindCount]KindInfo{
		KindMaskType:      {Category: CategoryType, typeOf: typeOfLeaf},
		KindNoRet:         {Category: CategoryType, typeOf: typeOfLeaf},
		KindUnit:          {Category: CategoryType, typeOf: typeOfLeaf},
		KindBool:          {Category: CategoryType, typeOf: typeOfLeaf},
		KindInt:           {Category: CategoryType, Proto: Int{}, typeOf: typeOfInt},
		KindFloat:         {Category: CategoryType, Proto: Float{}, typeOf: typeOfFloat},
		KindRecordType:    {Category: CategoryType, Proto: RecordType{}, typeOf: typeOfRecordType},
		KindFnType:        {Category: CategoryType, Proto: FnType{}, typeOf: typeOfFnType},
		KindPtrType:       {Category: CategoryType, Proto: PtrType{}, typeOf: typeOfPtrType},
		KindQualifiedType: {Category: CategoryType, Proto: QualifiedType{}, typeOf: typeOfQualifiedType},
		KindArrType:       {Category: CategoryType, Proto: ArrType{}, typeOf: typeOfArrType},
		KindPackType:      {Category: CategoryType, Proto: PackType{}, typeOf: typeOfPackType},
		KindTypeDeclRef:   {Category: CategoryType, Proto: TypeDeclRef{}, typeOf: typeOfTypeDeclRef},
		KindSamplerType:   {Category: CategoryType, typeOf: typeOfLeaf},
		KindImageType:     {Category: CategoryType, Proto: ImageType{}, typeOf: typeOfImageType},

		KindIntLiteral: {
			Category: CategoryValue,
			Relevant: []string{"width", "signed", "value"},
			Proto:    IntLiteral{},
			typeOf:   typeOfIntLiteral,
		},
		KindFloatLiteral:  {Category: CategoryValue, Proto: FloatLiteral{}, typeOf: typeOfFloatLiteral},
		KindTrue:          {Category: CategoryValue, typeOf: typeOfBoolLiteral},
		KindFalse:         {Category: CategoryValue, typeOf: typeOfBoolLiteral},
		KindStringLiteral: {Category: CategoryValue, Proto: StringLiteral{}, typeOf: typeOfStringLiteral},
		KindNullPtr:       {Category: CategoryValue, Proto: NullPtr{}, typeOf: typeOfNullPtr},
		KindUndef:         {Category: CategoryValue, Proto: Undef{}, typeOf: typeOfUndef},
		KindComposite:     {Category: CategoryValue, Proto: Composite{}, typeOf: typeOfComposite},
		KindFill:          {Category: CategoryValue, Proto: Fill{}, typeOf: typeOfFill},
		KindFnAddr:        {Category: CategoryValue, Proto: FnAddr{}, typeOf: typeOfFnAddr},
		KindRefDecl:       {Category: CategoryValue, Proto: RefDecl{}, typeOf: typeOfRefDecl},
		KindVariable: {
			Category: CategoryValue,
			Relevant: []string{"id"},
			Proto:    Variable{},
			typeOf:   typeOfVariable,
		},
		KindUnbound: {Category: CategoryValue, Proto: Unbound{}, typeOf: typeOfUnbound},

		KindPrimOp:  {Category: CategoryInstruction, Proto: PrimOp{}, typeOf: typeOfPrimOp},
		KindCall:    {Category: CategoryInstruction, Proto: Call{}, typeOf: typeOfCall},
		KindIf:      {Category: CategoryInstruction, Proto: If{}, typeOf: typeOfIf},
		KindMatch:   {Category: CategoryInstruction, Proto: Match{}, typeOf: typeOfMatch},
		KindLoop:    {Category: CategoryInstruction, Proto: Loop{}, typeOf: typeOfLoop},
		KindControl: {Category: CategoryInstruction, Proto: Control{}, typeOf: typeOfControl},

		KindLet:           {Category: CategoryTerminator, Proto: Let{}, typeOf: typeOfLet},
		KindJump:          {Category: CategoryTerminator, Proto: Jump{}, typeOf: typeOfJump},
		KindBranch:        {Category: CategoryTerminator, Proto: Branch{}, typeOf: typeOfBranch},
		KindReturn:        {Category: CategoryTerminator, Proto: Return{}, typeOf: typeOfReturn},
		KindUnreachable:   {Category: CategoryTerminator, typeOf: typeOfUnreachable},
		KindYield:         {Category: CategoryTerminator, Proto: Yield{}, typeOf: typeOfYield},
		KindMergeContinue: {Category: CategoryTerminator, Proto: MergeContinue{}, typeOf: typeOfMergeContinue},
		KindMergeBreak:    {Category: CategoryTerminator, Proto: MergeBreak{}, typeOf: typeOfMergeBreak},
		KindTailCall:      {Category: CategoryTerminator, Proto: TailCall{}, typeOf: typeOfTailCall},

		KindCase: {Category: CategoryAbstraction, Proto: Case{}, typeOf: typeOfCase},
		KindBasicBlock: {
			Category:  CategoryAbstraction,
			Nominal:   true,
			Body:      "body",
			Proto:     BasicBlock{},
			typeOf:    typeOfBasicBlock,
			checkBody: checkTerminatorBody,
		},
		KindFunction: {
			Category:  CategoryDeclaration,
			Nominal:   true,
			Body:      "body",
			Proto:     Function{},
			typeOf:    typeOfFunction,
			checkBody: checkFunctionBody,
		},
		KindConstant: {
			Category:  CategoryDeclaration,
			Nominal:   true,
			Body:      "value",
			Proto:     Constant{},
			typeOf:    typeOfConstant,
			checkBody: checkConstantBody,
		},
		KindGlobalVariable: {
			Category:  CategoryDeclaration,
			Nominal:   true,
			Body:      "init",
			Proto:     GlobalVariable{},
			typeOf:    typeOfGlobalVariable,
			checkBody: checkGlobalInit,
		},
		KindNominalType: {
			Category:  CategoryDeclaration,
			Nominal:   true,
			Body:      "body",
			Proto:     NominalType{},
			typeOf:    typeOfNominalType,
			checkBody: checkNominalTypeBody,
		},
		KindAnnotation: {Category: CategoryMisc, Proto: Annotation{}, typeOf: typeOfAnnotation},
		KindRoot:       {Category: CategoryMisc, Proto: Root{}, typeOf: typeOfRoot},
	}
	buildShapes()
}

// Info returns the classifier entry of k. Unknown kinds yield a zero entry
// with CategoryNone.
func Info(k Kind) KindInfo {
	if !k.Valid() {
		return KindInfo{Name: k.String()}
	}
	info := kindTable[k]
	info.Name = kindNames[k]
	return info
}

// IsNominal reports whether nodes of kind k are identified by allocation.
func (k Kind) IsNominal() bool { return k.Valid() && kindTable[k].Nominal }

// Category returns the group k belongs to.
func (k Kind) Category() Category {
	if !k.Valid() {
		return CategoryNone
	}
	return kindTable[k].Category
}

// HasPayload reports whether nodes of kind k carry fields.
func (k Kind) HasPayload() bool { return k.Valid() && kindTable[k].Proto != nil }
