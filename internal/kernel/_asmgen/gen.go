// Command gen writes pkg/kernel/add_amd64.s.
//
// It lives in its own module so the avo toolchain never becomes a build
// dependency of vecasm. Registers are pinned so the generated listing stays
// stable across avo releases.
package main

//go:generate go run gen.go -out ../../../pkg/kernel/add_amd64.s -pkg kernel

import (
	. "github.com/mmcloughlin/avo/build"
	. "github.com/mmcloughlin/avo/operand"
	. "github.com/mmcloughlin/avo/reg"
)

func main() {
	ConstraintExpr("!purego && amd64")

	TEXT("addVectorizedAVX2", NOSPLIT, "func(dst, lhs, rhs []int32)")

	Load(Param("dst").Base(), RDI)
	Load(Param("dst").Len(), RCX)
	Load(Param("lhs").Base(), RSI)
	Load(Param("rhs").Base(), RDX)
	XORQ(RAX, RAX)
	MOVQ(RCX, RBX)
	SHRQ(U8(3), RBX)
	SHLQ(U8(3), RBX)

	Comment("Eight int32 lanes per iteration.")
	Label("packed")
	CMPQ(RAX, RBX)
	JGE(LabelRef("tail"))
	VMOVDQU(Mem{Base: RSI, Index: RAX, Scale: 4}, Y0)
	VMOVDQU(Mem{Base: RDX, Index: RAX, Scale: 4}, Y1)
	VPADDD(Y1, Y0, Y0)
	VMOVDQU(Y0, Mem{Base: RDI, Index: RAX, Scale: 4})
	ADDQ(U8(8), RAX)
	JMP(LabelRef("packed"))

	Comment("Scalar remainder.")
	Label("tail")
	CMPQ(RAX, RCX)
	JGE(LabelRef("done"))
	MOVL(Mem{Base: RSI, Index: RAX, Scale: 4}, R8L)
	ADDL(Mem{Base: RDX, Index: RAX, Scale: 4}, R8L)
	MOVL(R8L, Mem{Base: RDI, Index: RAX, Scale: 4})
	INCQ(RAX)
	JMP(LabelRef("tail"))

	Label("done")
	VZEROUPPER()
	RET()

	Generate()
}
