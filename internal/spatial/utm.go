package spatial

import "math"

// Barcelona open-data boundary files ship in ETRS89 / UTM zone 31N
// (EPSG:25831). These transforms cover exactly that zone; the series are the
// standard transverse Mercator expansions on the GRS80 ellipsoid.

const (
	grs80A  = 6378137.0         // semi-major axis
	grs80F  = 1 / 298.257222101 // flattening
	utmK0   = 0.9996
	utmLon0 = 3.0 * math.Pi / 180 // central meridian of zone 31
	utmE0   = 500000.0            // false easting
)

var (
	e2  = grs80F * (2 - grs80F) // first eccentricity squared
	e4  = e2 * e2
	e6  = e4 * e2
	ep2 = e2 / (1 - e2) // second eccentricity squared
	e1  = (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))
)

// meridionalArc returns the arc length from the equator to latitude phi.
func meridionalArc(phi float64) float64 {
	return grs80A * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))
}

// LatLonToUTM31N projects a WGS84/ETRS89 coordinate into EPSG:25831
// easting/northing (meters). Northern hemisphere only.
func LatLonToUTM31N(lat, lon float64) (easting, northing float64) {
	phi := lat * math.Pi / 180
	lam := lon * math.Pi / 180

	sinPhi := math.Sin(phi)
	cosPhi := math.Cos(phi)
	tanPhi := math.Tan(phi)

	n := grs80A / math.Sqrt(1-e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := ep2 * cosPhi * cosPhi
	a := (lam - utmLon0) * cosPhi

	m := meridionalArc(phi)

	easting = utmE0 + utmK0*n*(a+
		(1-t+c)*a*a*a/6+
		(5-18*t+t*t+72*c-58*ep2)*math.Pow(a, 5)/120)

	northing = utmK0 * (m + n*tanPhi*(a*a/2+
		(5-t+9*c+4*c*c)*math.Pow(a, 4)/24+
		(61-58*t+t*t+600*c-330*ep2)*math.Pow(a, 6)/720))

	return easting, northing
}

// UTM31NToLatLon inverts EPSG:25831 easting/northing (meters) back to
// latitude/longitude degrees.
func UTM31NToLatLon(easting, northing float64) (lat, lon float64) {
	x := easting - utmE0
	m := northing / utmK0

	mu := m / (grs80A * (1 - e2/4 - 3*e4/64 - 5*e6/256))

	// Footpoint latitude
	phi1 := mu +
		(3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
		(151*math.Pow(e1, 3)/96)*math.Sin(6*mu) +
		(1097*math.Pow(e1, 4)/512)*math.Sin(8*mu)

	sinPhi1 := math.Sin(phi1)
	cosPhi1 := math.Cos(phi1)
	tanPhi1 := math.Tan(phi1)

	c1 := ep2 * cosPhi1 * cosPhi1
	t1 := tanPhi1 * tanPhi1
	n1 := grs80A / math.Sqrt(1-e2*sinPhi1*sinPhi1)
	r1 := grs80A * (1 - e2) / math.Pow(1-e2*sinPhi1*sinPhi1, 1.5)
	d := x / (n1 * utmK0)

	phi := phi1 - (n1*tanPhi1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*math.Pow(d, 4)/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*math.Pow(d, 6)/720)

	lam := utmLon0 + (d-
		(1+2*t1+c1)*math.Pow(d, 3)/6+
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*math.Pow(d, 5)/120)/cosPhi1

	return phi * 180 / math.Pi, lam * 180 / math.Pi
}
