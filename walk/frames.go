package walk

import "github.com/bowdoin-robotics/biped/spatialmath"

// These five helpers compute the transforms between the five coordinate
// frames named in the step generator: the last support-foot frame (f), the
// next support-foot frame (f'), the current step's support-foot-local frame
// (s), and the step's own local frame after the step completes (s'). Every
// one is grounded on StepGenerator's identically named C++ methods; the
// naming (fprime_f, f_fprime, sprime_s, s_sprime, f_s) is kept because it's
// the only way to keep the composition order straight against the paper
// this algorithm comes from.

func legSign(f Foot) float32 {
	if f == LeftFoot {
		return 1
	}
	return -1
}

// fprimeF returns the transform from the previous f frame to the next f'
// frame, rooted at step.
func fprimeF(step *Step, hipOffsetY float32) spatialmath.Matrix3 {
	sign := legSign(step.Foot)
	transFprimeS := spatialmath.Translation3(0, -sign*hipOffsetY)
	transSF := spatialmath.Rotation3(-step.Theta).Compose(spatialmath.Translation3(-step.X, -step.Y))
	return transSF.Compose(transFprimeS)
}

// fFprime is the inverse of fprimeF.
func fFprime(step *Step, hipOffsetY float32) spatialmath.Matrix3 {
	sign := legSign(step.Foot)
	transFprimeS := spatialmath.Translation3(0, sign*hipOffsetY)
	transSF := spatialmath.Translation3(step.X, step.Y).Compose(spatialmath.Rotation3(step.Theta))
	return transFprimeS.Compose(transSF)
}

// sprimeS translates points in the s frame into the s' frame for the given
// step.
func sprimeS(step *Step, hipOffsetY float32) spatialmath.Matrix3 {
	sign := legSign(step.Foot)
	transFS := spatialmath.Translation3(0, sign*hipOffsetY)
	transSprimeF := spatialmath.Rotation3(-step.Theta).Compose(spatialmath.Translation3(-step.X, -step.Y))
	return transFS.Compose(transSprimeF)
}

// sSprime translates points in the next s frame back into the previous one.
func sSprime(step *Step, hipOffsetY float32) spatialmath.Matrix3 {
	sign := legSign(step.Foot)
	transFS := spatialmath.Translation3(0, -sign*hipOffsetY)
	transSprimeF := spatialmath.Translation3(step.X, step.Y).Compose(spatialmath.Rotation3(step.Theta))
	return transSprimeF.Compose(transFS)
}

// fS returns the transform moving points from the f frame into the s frame;
// purely the hip offset since f and s share origin, differing only in the
// lateral hip-to-foot distance.
func fS(step *Step, hipOffsetY float32) spatialmath.Matrix3 {
	sign := legSign(step.Foot)
	return spatialmath.Translation3(0, sign*hipOffsetY)
}
